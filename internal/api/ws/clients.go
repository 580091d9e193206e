package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/GriffinCanCode/runyx-bridge/internal/shared/id"
)

// Client is one connected WebSocket peer.
type Client struct {
	ID         id.ClientID
	RemoteAddr string

	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:         id.NewClientID(),
		RemoteAddr: conn.RemoteAddr().String(),
		conn:       conn,
	}
}

// write serializes frames to the connection; gorilla allows only one
// concurrent writer.
func (c *Client) write(msgType int, data []byte, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(msgType, data)
}

// close sends a close frame when possible and releases the socket.
func (c *Client) close(code int, reason string) {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		_ = c.conn.Close()
	})
}

// ClientSet is the thread-safe set of connected clients.
type ClientSet struct {
	mu      sync.RWMutex
	clients map[id.ClientID]*Client
}

// NewClientSet creates an empty set
func NewClientSet() *ClientSet {
	return &ClientSet{clients: make(map[id.ClientID]*Client)}
}

// Add inserts a client
func (s *ClientSet) Add(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c.ID] = c
}

// Remove deletes a client and reports whether it was present
func (s *ClientSet) Remove(clientID id.ClientID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[clientID]; !ok {
		return false
	}
	delete(s.clients, clientID)
	return true
}

// Snapshot returns the current clients; iteration over it never races with
// Add or Remove.
func (s *ClientSet) Snapshot() []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

// Len returns the number of clients
func (s *ClientSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

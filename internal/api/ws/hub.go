package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/shared/id"
)

const (
	defaultWriteTimeout = 10 * time.Second
	defaultReadLimit    = 32 << 20
)

// Message is one inbound frame.
type Message struct {
	ClientID id.ClientID
	Type     int
	Data     []byte
}

// Options configures a Hub
type Options struct {
	Logger       *logging.Logger
	Metrics      *monitoring.Metrics
	WriteTimeout time.Duration
	ReadLimit    int64
	// OnMessage observes every inbound frame before it is broadcast.
	OnMessage func(Message)
}

// Hub relays every inbound frame to all other connected clients.
type Hub struct {
	clients  *ClientSet
	upgrader websocket.Upgrader
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	opts     Options

	// mu orders wg.Add in ServeHTTP against wg.Wait in Close.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewHub creates a hub
func NewHub(opts Options) *Hub {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = defaultReadLimit
	}
	return &Hub{
		clients: NewClientSet(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // extensions connect from chrome-extension:// origins
			},
		},
		logger:  logging.OrNop(opts.Logger),
		metrics: opts.Metrics,
		opts:    opts,
	}
}

// HandleConnection upgrades a gin request
func (h *Hub) HandleConnection(c *gin.Context) {
	h.ServeHTTP(c.Writer, c.Request)
}

// ServeHTTP upgrades the request and runs the client's read loop until the
// peer disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "websocket hub closed", http.StatusServiceUnavailable)
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()
	defer h.wg.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(h.opts.ReadLimit)

	client := newClient(conn)

	h.clients.Add(client)
	h.metrics.ClientConnected()
	h.logger.Info("client connected",
		zap.String("client_id", client.ID.String()),
		zap.String("remote", client.RemoteAddr),
		zap.Int("active", h.clients.Len()),
	)

	// a Close racing the upgrade must not leave this client behind
	if h.isClosed() {
		h.drop(client, websocket.CloseGoingAway, "shutdown")
		return
	}

	h.readLoop(client)
}

func (h *Hub) readLoop(client *Client) {
	defer func() {
		h.drop(client, websocket.CloseNormalClosure, "")
		h.logger.Info("client disconnected",
			zap.String("client_id", client.ID.String()),
			zap.Int("active", h.clients.Len()),
		)
	}()

	for {
		msgType, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				h.logger.Debug("websocket read error", zap.String("client_id", client.ID.String()), zap.Error(err))
			}
			return
		}
		h.metrics.MessageIn()

		h.logMessage(client.ID, msgType, data)
		if h.opts.OnMessage != nil {
			h.opts.OnMessage(Message{ClientID: client.ID, Type: msgType, Data: data})
		}

		h.Broadcast(client.ID, msgType, data)
	}
}

// Broadcast sends the frame to every client except origin and returns how
// many received it. Clients whose write fails are dropped.
func (h *Hub) Broadcast(origin id.ClientID, msgType int, data []byte) int {
	delivered := 0
	for _, client := range h.clients.Snapshot() {
		if client.ID == origin {
			continue
		}
		if err := client.write(msgType, data, h.opts.WriteTimeout); err != nil {
			h.logger.Debug("dropping dead client", zap.String("client_id", client.ID.String()), zap.Error(err))
			h.drop(client, websocket.CloseGoingAway, "write failed")
			h.metrics.ClientDropped()
			continue
		}
		h.metrics.MessageOut()
		delivered++
	}
	return delivered
}

// Publish sends a server originated frame to every client.
func (h *Hub) Publish(msgType int, data []byte) int {
	return h.Broadcast("", msgType, data)
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	return h.clients.Len()
}

// Close disconnects every client and waits for their read loops, or for ctx.
func (h *Hub) Close(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	for _, client := range h.clients.Snapshot() {
		h.drop(client, websocket.CloseGoingAway, "shutdown")
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Hub) drop(client *Client, code int, reason string) {
	if h.clients.Remove(client.ID) {
		h.metrics.ClientDisconnected()
	}
	client.close(code, reason)
}

// logMessage mirrors the extension test server: JSON frames carrying a
// channel field are logged with it.
func (h *Hub) logMessage(clientID id.ClientID, msgType int, data []byte) {
	if ce := h.logger.Check(zap.DebugLevel, "message received"); ce != nil {
		fields := []zap.Field{
			zap.String("client_id", clientID.String()),
			zap.Int("bytes", len(data)),
		}
		if msgType == websocket.TextMessage {
			var envelope struct {
				Channel string `json:"channel"`
				Event   string `json:"event"`
			}
			if err := sonic.Unmarshal(data, &envelope); err == nil {
				if envelope.Channel != "" {
					fields = append(fields, zap.String("channel", envelope.Channel))
				}
				if envelope.Event != "" {
					fields = append(fields, zap.String("event", envelope.Event))
				}
			}
		}
		ce.Write(fields...)
	}
}

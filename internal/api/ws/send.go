package ws

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// DefaultEndpoint is the bridge's WebSocket address with default settings.
const DefaultEndpoint = "ws://localhost:8765"

const sendTimeout = 10 * time.Second

// Send connects to endpoint, writes one text frame and disconnects.
func Send(ctx context.Context, endpoint, message string) error {
	return SendFrame(ctx, endpoint, websocket.TextMessage, []byte(message))
}

// SendJSON marshals v and sends it as one text frame.
func SendJSON(ctx context.Context, endpoint string, v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return SendFrame(ctx, endpoint, websocket.TextMessage, data)
}

// SendFrame is the fire-and-forget primitive behind Send and SendJSON.
func SendFrame(ctx context.Context, endpoint string, msgType int, data []byte) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sendTimeout)
		defer cancel()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", endpoint, err)
	}
	defer conn.Close()

	deadline, _ := ctx.Deadline()
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := conn.WriteMessage(msgType, data); err != nil {
		return fmt.Errorf("send to %s: %w", endpoint, err)
	}

	// best-effort close handshake
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline)
	return nil
}

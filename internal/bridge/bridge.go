package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/runyx-bridge/internal/api/http"
	"github.com/GriffinCanCode/runyx-bridge/internal/api/ws"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/server"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Option configures a Bridge
type Option func(*Bridge)

// WithRegistry serves routes from registry instead of a fresh one.
func WithRegistry(registry *route.Registry) Option {
	return func(b *Bridge) { b.registry = registry }
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithMetrics records transport metrics into metrics.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(b *Bridge) { b.metrics = metrics }
}

// WithMessageObserver is called for every inbound WebSocket frame.
func WithMessageObserver(fn func(ws.Message)) Option {
	return func(b *Bridge) { b.onMessage = fn }
}

// Bridge owns the HTTP and WebSocket transports.
type Bridge struct {
	cfg       Config
	registry  *route.Registry
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	onMessage func(ws.Message)

	mu     sync.Mutex
	handle *Handle
}

// New creates a bridge. cfg is copied; later changes to the caller's value
// have no effect.
func New(cfg Config, opts ...Option) *Bridge {
	b := &Bridge{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = route.NewRegistry()
	}
	b.logger = logging.OrNop(b.logger).Named("bridge")
	if b.metrics == nil && b.cfg.Metrics {
		b.metrics = monitoring.NewMetrics()
	}
	return b
}

// Config returns the effective configuration
func (b *Bridge) Config() Config { return b.cfg }

// Registry returns the routes served by the HTTP transport
func (b *Bridge) Registry() *route.Registry { return b.registry }

// Metrics returns the metrics sink, nil when metrics are disabled
func (b *Bridge) Metrics() *monitoring.Metrics { return b.metrics }

// Start binds every enabled transport and serves them. In background mode it
// returns once the listeners are bound; in foreground mode it blocks until ctx
// is cancelled, Stop is called, or a transport fails. Cancelling ctx stops
// the bridge in either mode.
func (b *Bridge) Start(ctx context.Context) (*Handle, error) {
	if !b.cfg.Requests && !b.cfg.WebSocket {
		return nil, fmt.Errorf("%w: neither requests nor websocket is enabled", ErrConfiguration)
	}

	b.mu.Lock()
	if b.handle != nil && b.handle.running() {
		h := b.handle
		b.mu.Unlock()
		return h, ErrAlreadyRunning
	}

	h, err := b.bind()
	if err != nil {
		b.mu.Unlock()
		return nil, err
	}
	h.start(ctx)
	b.handle = h
	b.mu.Unlock()

	b.logger.Info("bridge started",
		zap.Bool("background", b.cfg.OnBackground),
		zap.Any("transports", h.Transports()),
	)

	if b.cfg.OnBackground {
		h.serveBackground()
		return h, nil
	}
	return h, h.serveForeground()
}

// bind opens the listeners in order HTTP then WebSocket. A failure closes
// whatever was already bound.
func (b *Bridge) bind() (*Handle, error) {
	h := &Handle{
		logger:          b.logger,
		metrics:         b.metrics,
		shutdownTimeout: b.cfg.ShutdownTimeout,
		done:            make(chan struct{}),
	}

	if b.cfg.Requests {
		router := apihttp.NewRouter(b.registry, apihttp.Options{
			Logger:       b.logger.Named("http"),
			Metrics:      b.metrics,
			MetricsPath:  b.metricsPath(),
			RateLimit:    b.cfg.RateLimit,
			MaxBodyBytes: b.cfg.MaxBodyBytes,
		})
		srv, err := server.Listen(TransportHTTP, b.cfg.HTTPAddr(), router, b.logger)
		if err != nil {
			return nil, &TransportStartError{Transport: TransportHTTP, Addr: b.cfg.HTTPAddr(), Err: err}
		}
		h.servers = append(h.servers, srv)
	}

	if b.cfg.WebSocket {
		hub := ws.NewHub(ws.Options{
			Logger:    b.logger.Named("ws"),
			Metrics:   b.metrics,
			OnMessage: b.onMessage,
		})
		router := gin.New()
		router.Use(gin.Recovery())
		router.NoRoute(hub.HandleConnection)

		srv, err := server.Listen(TransportWebSocket, b.cfg.WSAddr(), router, b.logger)
		if err != nil {
			h.closeListeners()
			return nil, &TransportStartError{Transport: TransportWebSocket, Addr: b.cfg.WSAddr(), Err: err}
		}
		h.servers = append(h.servers, srv)
		h.hub = hub
	}

	return h, nil
}

func (b *Bridge) metricsPath() string {
	if !b.cfg.Metrics {
		return ""
	}
	return b.cfg.MetricsPath
}

// Handle returns the handle of the latest start, or nil
func (b *Bridge) Handle() *Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle
}

// Running reports whether the transports are serving
func (b *Bridge) Running() bool {
	h := b.Handle()
	return h != nil && h.running()
}

// Broadcast publishes a frame to every WebSocket client and returns how many
// received it.
func (b *Bridge) Broadcast(msgType int, data []byte) int {
	h := b.Handle()
	if h == nil || h.hub == nil || !h.running() {
		return 0
	}
	return h.hub.Publish(msgType, data)
}

// Stop shuts the transports down. It is safe to call before Start and more
// than once.
func (b *Bridge) Stop(ctx context.Context) error {
	h := b.Handle()
	if h == nil {
		return nil
	}
	return h.Stop(ctx)
}

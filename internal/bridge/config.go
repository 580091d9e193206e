package bridge

import (
	"net"
	"strconv"
	"time"

	"github.com/GriffinCanCode/runyx-bridge/internal/api/middleware"
)

const (
	DefaultHost            = "localhost"
	DefaultHTTPPort        = 5001
	DefaultWSPort          = 8765
	DefaultShutdownTimeout = 3 * time.Second
	DefaultMetricsPath     = "/metrics"
)

// Config describes which transports a bridge runs and where.
type Config struct {
	Host     string
	HTTPPort int
	WSPort   int

	Requests  bool
	WebSocket bool
	// OnBackground makes Start return as soon as the transports are bound.
	OnBackground bool

	ShutdownTimeout time.Duration
	MaxBodyBytes    int64

	Metrics     bool
	MetricsPath string
	RateLimit   *middleware.RateLimitConfig
}

// DefaultConfig enables both transports on the default ports, foreground.
func DefaultConfig() Config {
	return Config{
		Host:            DefaultHost,
		HTTPPort:        DefaultHTTPPort,
		WSPort:          DefaultWSPort,
		Requests:        true,
		WebSocket:       true,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsPath:     DefaultMetricsPath,
	}
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Metrics && c.MetricsPath == "" {
		c.MetricsPath = DefaultMetricsPath
	}
	if c.RateLimit != nil {
		rl := *c.RateLimit
		c.RateLimit = &rl
	}
	return c
}

// HTTPAddr is the host:port the HTTP transport binds
func (c Config) HTTPAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.HTTPPort))
}

// WSAddr is the host:port the WebSocket transport binds
func (c Config) WSAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.WSPort))
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/runyx-bridge/internal/api/middleware"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

// Options configures the HTTP engine
type Options struct {
	Logger       *logging.Logger
	Metrics      *monitoring.Metrics
	MetricsPath  string
	RateLimit    *middleware.RateLimitConfig
	CORS         *middleware.CORSConfig
	MaxBodyBytes int64
}

// NewRouter builds the gin engine serving registry
func NewRouter(registry *route.Registry, opts Options) *gin.Engine {
	cors := middleware.DefaultCORSConfig()
	if opts.CORS != nil {
		cors = *opts.CORS
	}
	// preflights are answered per route by the dispatcher
	cors.PassthroughPreflight = true

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(opts.Logger))
	if opts.Metrics != nil {
		router.Use(monitoring.Middleware(opts.Metrics))
	}
	if opts.RateLimit != nil {
		router.Use(middleware.RateLimit(*opts.RateLimit))
	}
	router.Use(middleware.CORS(cors))

	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.GET(opts.MetricsPath, gin.WrapH(opts.Metrics.Handler()))
	}

	dispatcher := NewDispatcher(registry, opts.Logger, cors, opts.MaxBodyBytes)
	router.NoRoute(dispatcher.Dispatch)

	return router
}

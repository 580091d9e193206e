package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig defines CORS configuration options.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
	// PassthroughPreflight hands OPTIONS requests to the next handler instead
	// of answering them here, so the route owner can reply per route.
	PassthroughPreflight bool
}

// DefaultCORSConfig returns the permissive configuration the extension
// needs: any origin, the usual verbs and headers.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Accept",
			"Origin",
			"Cache-Control",
			"X-Requested-With",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
}

// AllowMethodsHeader renders the allowed methods for a preflight response.
func (c CORSConfig) AllowMethodsHeader() string {
	return strings.Join(c.AllowMethods, ", ")
}

// AllowHeadersHeader renders the allowed headers for a preflight response.
func (c CORSConfig) AllowHeadersHeader() string {
	return strings.Join(c.AllowHeaders, ", ")
}

// CORS creates a CORS middleware with the provided configuration.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods: cfg.AllowMethods,
		AllowHeaders: cfg.AllowHeaders,
		MaxAge:       cfg.MaxAge,
	}
	if len(cfg.AllowOrigins) == 0 || (len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	handler := cors.New(c)
	if !cfg.PassthroughPreflight {
		return handler
	}
	return func(ctx *gin.Context) {
		if ctx.Request.Method == http.MethodOptions {
			ctx.Next()
			return
		}
		handler(ctx)
	}
}

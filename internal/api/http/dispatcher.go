package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/api/middleware"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

// DefaultMaxBodyBytes caps request bodies; screenshots arrive base64 encoded.
const DefaultMaxBodyBytes int64 = 32 << 20

// Dispatcher resolves requests against a route registry and wraps handler
// results in envelopes.
type Dispatcher struct {
	registry *route.Registry
	logger   *logging.Logger
	cors     middleware.CORSConfig
	maxBody  int64
}

// NewDispatcher creates a dispatcher over registry
func NewDispatcher(registry *route.Registry, logger *logging.Logger, cors middleware.CORSConfig, maxBody int64) *Dispatcher {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Dispatcher{
		registry: registry,
		logger:   logging.OrNop(logger),
		cors:     cors,
		maxBody:  maxBody,
	}
}

// Dispatch handles one request. It is mounted as the engine's NoRoute
// handler, so routes registered while the server runs are picked up.
func (d *Dispatcher) Dispatch(c *gin.Context) {
	path := c.Request.URL.Path
	rt, ok := d.registry.Lookup(path)
	if !ok {
		c.JSON(http.StatusNotFound, Failure("not found: "+path))
		return
	}
	c.Set(monitoring.RouteKey, rt.Path)

	if c.Writer.Header().Get("Access-Control-Allow-Origin") == "" {
		c.Header("Access-Control-Allow-Origin", "*")
	}

	if c.Request.Method == http.MethodOptions {
		c.Header("Access-Control-Allow-Methods", allowList(rt.Methods))
		c.Header("Access-Control-Allow-Headers", d.cors.AllowHeadersHeader())
		if d.cors.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", strconv.FormatInt(int64(d.cors.MaxAge/time.Second), 10))
		}
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	if !rt.Allows(c.Request.Method) {
		c.Header("Allow", allowList(rt.Methods))
		c.JSON(http.StatusMethodNotAllowed, Failure(fmt.Sprintf("method %s not allowed on %s", c.Request.Method, rt.Path)))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, d.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, Failure(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
			return
		}
		c.JSON(http.StatusBadRequest, Failure("read body: "+err.Error()))
		return
	}

	payload := route.DecodePayload(c.GetHeader("Content-Type"), body)
	meta := route.MetaFromRequest(c.Request)

	result, err := invoke(c.Request.Context(), rt.Handler, payload, meta)
	if err != nil {
		status := route.StatusOf(err)
		d.logger.Warn("handler failed",
			zap.String("path", rt.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(status, Failure(err.Error()))
		return
	}

	c.JSON(http.StatusOK, Success(result))
}

func invoke(ctx context.Context, h route.Handler, p route.Payload, m route.Meta) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, p, m)
}

func allowList(methods []string) string {
	out := make([]string, 0, len(methods)+1)
	out = append(out, methods...)
	out = append(out, http.MethodOptions)
	return strings.Join(out, ", ")
}

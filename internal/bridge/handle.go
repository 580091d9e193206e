package bridge

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/runyx-bridge/internal/api/ws"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/server"
)

// TransportInfo describes one bound transport.
type TransportInfo struct {
	Name string `json:"name"`
	Addr string `json:"addr"`
}

// URL is the address clients connect to
func (t TransportInfo) URL() string {
	if t.Name == TransportWebSocket {
		return "ws://" + t.Addr
	}
	return "http://" + t.Addr
}

// Handle controls one started bridge, whichever mode it runs in.
type Handle struct {
	servers         []*server.Server
	hub             *ws.Hub
	logger          *logging.Logger
	metrics         *monitoring.Metrics
	shutdownTimeout time.Duration

	cancel context.CancelFunc
	group  *errgroup.Group

	done        chan struct{}
	err         error
	shutdownErr error
	stopOnce    sync.Once
}

// Transports lists the bound transports, HTTP first
func (h *Handle) Transports() []TransportInfo {
	out := make([]TransportInfo, 0, len(h.servers))
	for _, srv := range h.servers {
		out = append(out, TransportInfo{Name: srv.Name(), Addr: srv.Addr()})
	}
	return out
}

// Transport looks up a transport by name
func (h *Handle) Transport(name string) (TransportInfo, bool) {
	for _, t := range h.Transports() {
		if t.Name == name {
			return t, true
		}
	}
	return TransportInfo{}, false
}

// Done is closed once every transport has stopped
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until every transport has stopped and returns the first serve
// error, nil after a clean stop.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

func (h *Handle) running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Stop shuts every transport down and waits up to the shutdown timeout for
// the workers to finish. Workers still running after that are abandoned.
func (h *Handle) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() {
		h.cancel()

		timer := time.NewTimer(h.shutdownTimeout + time.Second)
		defer timer.Stop()
		select {
		case <-h.done:
		case <-timer.C:
			h.logger.Warn("abandoning transport workers after shutdown timeout",
				zap.Duration("timeout", h.shutdownTimeout))
		case <-ctx.Done():
			h.logger.Warn("stop interrupted before transports finished", zap.Error(ctx.Err()))
		}
	})

	select {
	case <-h.done:
		return h.shutdownErr
	default:
		return nil
	}
}

// start prepares the worker group. The watcher shuts the transports down once
// ctx is cancelled, Stop is called, or any worker fails.
func (h *Handle) start(ctx context.Context) {
	ctx, h.cancel = context.WithCancel(ctx)
	h.group, ctx = errgroup.WithContext(ctx)
	h.group.Go(func() error {
		<-ctx.Done()
		h.shutdown()
		return nil
	})
}

func (h *Handle) serveBackground() {
	for _, srv := range h.servers {
		h.group.Go(func() error { return h.serveOne(srv) })
	}
	go h.finish(nil)
}

// serveForeground runs the first transport on the calling goroutine and the
// rest on workers.
func (h *Handle) serveForeground() error {
	primary, rest := h.servers[0], h.servers[1:]
	for _, srv := range rest {
		h.group.Go(func() error { return h.serveOne(srv) })
	}

	err := h.serveOne(primary)
	if err != nil {
		h.cancel()
	}
	h.finish(err)
	return h.err
}

func (h *Handle) serveOne(srv *server.Server) error {
	h.metrics.SetTransportRunning(srv.Name(), true)
	defer h.metrics.SetTransportRunning(srv.Name(), false)

	if err := srv.Serve(); err != nil {
		h.logger.Error("transport failed", zap.String("transport", srv.Name()), zap.Error(err))
		return err
	}
	return nil
}

func (h *Handle) finish(primaryErr error) {
	err := h.group.Wait()
	if primaryErr != nil {
		err = primaryErr
	}
	h.err = err
	h.cancel()
	close(h.done)
	h.logger.Info("bridge stopped")
}

func (h *Handle) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range h.servers {
		if err := srv.Shutdown(ctx); err != nil {
			h.logger.Warn("transport shutdown failed", zap.String("transport", srv.Name()), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if h.hub != nil {
		if err := h.hub.Close(ctx); err != nil {
			h.logger.Warn("websocket hub close timed out", zap.Error(err))
			errs = append(errs, err)
		}
	}
	h.shutdownErr = errors.Join(errs...)
}

func (h *Handle) closeListeners() {
	for _, srv := range h.servers {
		_ = srv.Close()
	}
}

package app

import (
	"context"
	"time"

	"github.com/GriffinCanCode/runyx-bridge/internal/bridge"
	"github.com/GriffinCanCode/runyx-bridge/internal/browser"
	"github.com/GriffinCanCode/runyx-bridge/internal/extension"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

// BridgeRunner is the transport side of the app
type BridgeRunner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	// Done is closed when the transports stop on their own or after Stop.
	Done() <-chan struct{}
}

// BrowserRunner is a launched browser session
type BrowserRunner interface {
	Start(ctx context.Context) (extension.Driver, error)
	Stop() error
}

// ExtensionActivator brings the extension up inside a running browser
type ExtensionActivator interface {
	Activate(ctx context.Context, driver extension.Driver) (bool, error)
}

type (
	BridgeFactory    func(cfg bridge.Config) BridgeRunner
	BrowserFactory   func(cfg browser.Config) BrowserRunner
	ActivatorFactory func(extensionPath string) ExtensionActivator
)

// bridgeRunner adapts *bridge.Bridge
type bridgeRunner struct {
	b      *bridge.Bridge
	handle *bridge.Handle
}

func (r *bridgeRunner) Start(ctx context.Context) error {
	h, err := r.b.Start(ctx)
	if err != nil {
		return err
	}
	r.handle = h
	return nil
}

func (r *bridgeRunner) Stop(ctx context.Context) error {
	return r.b.Stop(ctx)
}

func (r *bridgeRunner) Done() <-chan struct{} {
	if r.handle == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return r.handle.Done()
}

// Bridge exposes the wrapped bridge
func (r *bridgeRunner) Bridge() *bridge.Bridge { return r.b }

func defaultBridgeFactory(registry *route.Registry, logger *logging.Logger, metrics *monitoring.Metrics) BridgeFactory {
	return func(cfg bridge.Config) BridgeRunner {
		return &bridgeRunner{b: bridge.New(cfg,
			bridge.WithRegistry(registry),
			bridge.WithLogger(logger),
			bridge.WithMetrics(metrics),
		)}
	}
}

// browserRunner adapts *browser.Session
type browserRunner struct {
	s *browser.Session
}

func (r *browserRunner) Start(ctx context.Context) (extension.Driver, error) {
	d, err := r.s.Start(ctx)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *browserRunner) Stop() error { return r.s.Stop() }

func defaultBrowserFactory(logger *logging.Logger) BrowserFactory {
	return func(cfg browser.Config) BrowserRunner {
		return &browserRunner{s: browser.NewSession(cfg, logger)}
	}
}

func defaultActivatorFactory(logger *logging.Logger, timeout time.Duration) ActivatorFactory {
	return func(extensionPath string) ExtensionActivator {
		activator := extension.NewActivator(extensionPath, logger)
		if timeout > 0 {
			activator.Timeout = timeout
		}
		return activator
	}
}

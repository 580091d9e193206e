package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/bridge"
	"github.com/GriffinCanCode/runyx-bridge/internal/browser"
	"github.com/GriffinCanCode/runyx-bridge/internal/extension"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/runyx-bridge/internal/project"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

const defaultStopTimeout = 10 * time.Second

// Config describes a full app run.
type Config struct {
	Bridge bridge.Config
	// Browser.Browser empty and no ExtensionPath means no browser is launched.
	Browser       browser.Config
	ExtensionPath string

	ImportProjectPath string
	RequireImport     bool
	AutoActivate      bool
	// ActivationTimeout bounds extension activation; zero uses the default.
	ActivationTimeout time.Duration
	// KeepAlive makes Start block until ctx is done even in background mode.
	KeepAlive bool
}

// DefaultConfig mirrors the CLI defaults: both transports, import required,
// auto activation and keep alive on. Host and ports are left unset so a
// project file can supply them.
func DefaultConfig() Config {
	return Config{
		Bridge: bridge.Config{
			Requests:        true,
			WebSocket:       true,
			ShutdownTimeout: bridge.DefaultShutdownTimeout,
		},
		Browser:       browser.Config{StartTimeout: browser.DefaultStartTimeout},
		RequireImport: true,
		AutoActivate:  true,
		KeepAlive:     true,
	}
}

func (c Config) browserEnabled() bool {
	return c.Browser.Browser != "" || c.ExtensionPath != ""
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithRegistry serves routes from registry
func WithRegistry(registry *route.Registry) Option {
	return func(a *App) { a.registry = registry }
}

// WithMetrics records bridge metrics into metrics
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(a *App) { a.metrics = metrics }
}

// WithBridgeFactory replaces how the bridge is built
func WithBridgeFactory(f BridgeFactory) Option {
	return func(a *App) { a.newBridge = f }
}

// WithBrowserFactory replaces how the browser session is built
func WithBrowserFactory(f BrowserFactory) Option {
	return func(a *App) { a.newBrowser = f }
}

// WithActivatorFactory replaces how the extension activator is built
func WithActivatorFactory(f ActivatorFactory) Option {
	return func(a *App) { a.newActivator = f }
}

// App orchestrates import, bridge, browser and extension in that order and
// tears them down in reverse.
type App struct {
	cfg      Config
	logger   *logging.Logger
	registry *route.Registry
	metrics  *monitoring.Metrics

	newBridge    BridgeFactory
	newBrowser   BrowserFactory
	newActivator ActivatorFactory

	mu      sync.Mutex
	state   State
	project *project.File
	bridge  BridgeRunner
	browser BrowserRunner
}

// New creates an app; nothing runs until Start.
func New(cfg Config, opts ...Option) *App {
	a := &App{cfg: cfg, state: StateCreated}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger).Named("app")
	if a.registry == nil {
		a.registry = route.NewRegistry()
	}
	if a.newBridge == nil {
		a.newBridge = defaultBridgeFactory(a.registry, a.logger, a.metrics)
	}
	if a.newBrowser == nil {
		a.newBrowser = defaultBrowserFactory(a.logger)
	}
	if a.newActivator == nil {
		a.newActivator = defaultActivatorFactory(a.logger, a.cfg.ActivationTimeout)
	}
	return a
}

// State returns the lifecycle state
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Project returns the imported project, or nil
func (a *App) Project() *project.File {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.project
}

// Bridge returns the running bridge, or nil
func (a *App) Bridge() BridgeRunner {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bridge
}

// Registry returns the routes served over HTTP
func (a *App) Registry() *route.Registry { return a.registry }

// Start runs the import, the bridge, the browser and extension activation.
// With KeepAlive, or when the bridge is configured for the foreground, it
// then blocks until ctx is done or the bridge stops, and stops the app
// before returning.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if !a.state.canStart() {
		state := a.state
		a.mu.Unlock()
		return fmt.Errorf("%w: cannot start while %s", ErrInvalidState, state)
	}
	a.state = StateStarting
	a.mu.Unlock()

	bridgeCfg, err := a.importProject()
	if err != nil {
		a.setState(StateFailed)
		return err
	}

	// the bridge lives until Stop, not until the caller's ctx is done
	runner := a.newBridge(bridgeCfg)
	if err := runner.Start(context.WithoutCancel(ctx)); err != nil {
		a.logger.Error("bridge failed to start", zap.Error(err))
		a.setState(StateFailed)
		return err
	}
	a.mu.Lock()
	a.bridge = runner
	a.mu.Unlock()

	driver, err := a.startBrowser(ctx)
	if err != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
		defer cancel()
		if stopErr := runner.Stop(stopCtx); stopErr != nil {
			a.logger.Warn("bridge stop after browser failure", zap.Error(stopErr))
		}
		a.mu.Lock()
		a.bridge = nil
		a.state = StateFailed
		a.mu.Unlock()
		return &BrowserLaunchError{Err: err}
	}

	if driver != nil && a.cfg.AutoActivate && a.cfg.ExtensionPath != "" {
		a.activate(ctx, driver)
	}

	a.setState(StateRunning)
	a.logger.Info("app running")

	if !a.cfg.KeepAlive && a.cfg.Bridge.OnBackground {
		return nil
	}

	var bridgeStopped bool
	select {
	case <-ctx.Done():
	case <-runner.Done():
		bridgeStopped = true
	}
	a.logger.Info("app shutting down", zap.Bool("bridge_stopped", bridgeStopped))

	stopCtx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()
	return a.Stop(stopCtx)
}

// importProject loads the project file and returns the bridge config. An
// unset host or port is taken from the project, then from the defaults.
func (a *App) importProject() (bridge.Config, error) {
	cfg, err := a.loadProject()
	if cfg.Host == "" {
		cfg.Host = bridge.DefaultHost
	}
	if cfg.HTTPPort == 0 {
		cfg.HTTPPort = bridge.DefaultHTTPPort
	}
	if cfg.WSPort == 0 {
		cfg.WSPort = bridge.DefaultWSPort
	}
	return cfg, err
}

func (a *App) loadProject() (bridge.Config, error) {
	cfg := a.cfg.Bridge
	// later steps need the caller back
	cfg.OnBackground = true

	path := a.cfg.ImportProjectPath
	if path == "" {
		if a.cfg.RequireImport {
			return cfg, &ConfigurationError{Reason: "import is required but no project path is set"}
		}
		return cfg, nil
	}

	file, err := project.Load(path)
	if err != nil {
		if a.cfg.RequireImport {
			return cfg, &ConfigurationError{Reason: "required project import failed", Err: err}
		}
		a.logger.Warn("project import failed, continuing without it", zap.String("path", path), zap.Error(err))
		return cfg, nil
	}

	if file.Bridge != nil {
		if cfg.Host == "" {
			cfg.Host = file.Bridge.Host
		}
		if cfg.HTTPPort == 0 {
			cfg.HTTPPort = file.Bridge.HTTPPort
		}
		if cfg.WSPort == 0 {
			cfg.WSPort = file.Bridge.WSPort
		}
	}

	if a.cfg.ExtensionPath != "" {
		dest, err := extension.Install(file, a.cfg.ExtensionPath)
		if err != nil {
			if a.cfg.RequireImport {
				return cfg, &ConfigurationError{Reason: "install project into extension", Err: err}
			}
			a.logger.Warn("project install failed", zap.Error(err))
		} else {
			a.logger.Info("project installed", zap.String("project_id", file.Project.ID), zap.String("path", dest))
		}
	}

	a.mu.Lock()
	a.project = file
	a.mu.Unlock()
	return cfg, nil
}

func (a *App) startBrowser(ctx context.Context) (extension.Driver, error) {
	if !a.cfg.browserEnabled() {
		return nil, nil
	}
	cfg := a.cfg.Browser
	if cfg.ExtensionPath == "" {
		cfg.ExtensionPath = a.cfg.ExtensionPath
	}

	session := a.newBrowser(cfg)
	driver, err := session.Start(ctx)
	if err != nil {
		a.logger.Error("browser failed to start", zap.Error(err))
		return nil, err
	}
	a.mu.Lock()
	a.browser = session
	a.mu.Unlock()
	return driver, nil
}

func (a *App) activate(ctx context.Context, driver extension.Driver) {
	ok, err := a.newActivator(a.cfg.ExtensionPath).Activate(ctx, driver)
	switch {
	case err != nil:
		a.logger.Warn("extension activation failed", zap.Error(err))
	case !ok:
		a.logger.Warn("extension not activated")
	}
}

// Stop stops the browser then the bridge. Every step runs even when an
// earlier one fails; the errors are joined. Stopping an app that never
// started, or twice, does nothing.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	switch a.state {
	case StateCreated, StateStopped, StateStopping:
		a.mu.Unlock()
		return nil
	}
	a.state = StateStopping
	session, runner := a.browser, a.bridge
	a.browser, a.bridge = nil, nil
	a.mu.Unlock()

	var errs []error
	if session != nil {
		if err := session.Stop(); err != nil {
			a.logger.Warn("browser stop failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if runner != nil {
		if err := runner.Stop(ctx); err != nil {
			a.logger.Warn("bridge stop failed", zap.Error(err))
			errs = append(errs, err)
		}
	}

	a.setState(StateStopped)
	a.logger.Info("app stopped")
	return errors.Join(errs...)
}

func (a *App) setState(s State) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

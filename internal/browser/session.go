package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/extensions"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/shared/id"
)

// Driver is the automation handle of a running browser. Page-level work can
// be done with chromedp.Run on Context().
type Driver struct {
	ctx     context.Context
	version VersionInfo
	pid     int
}

// Context returns the chromedp context bound to the browser's first tab
func (d *Driver) Context() context.Context { return d.ctx }

// Version returns what the browser reported on /json/version
func (d *Driver) Version() VersionInfo { return d.version }

// PID returns the browser process id
func (d *Driver) PID() int { return d.pid }

// DebuggerURL returns the browser websocket url
func (d *Driver) DebuggerURL() string { return d.version.WebSocketDebuggerURL }

// Run executes browser-level actions. ctx bounds the calls only.
func (d *Driver) Run(ctx context.Context, actions ...chromedp.Action) error {
	exec, err := d.executor(ctx)
	if err != nil {
		return err
	}
	for _, action := range actions {
		if err := action.Do(exec); err != nil {
			return err
		}
	}
	return nil
}

// Targets lists every DevTools target, including extension workers.
func (d *Driver) Targets(ctx context.Context) ([]TargetInfo, error) {
	exec, err := d.executor(ctx)
	if err != nil {
		return nil, err
	}
	infos, err := target.GetTargets().Do(exec)
	if err != nil {
		return nil, err
	}
	out := make([]TargetInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, TargetInfo{
			TargetID: string(info.TargetID),
			Type:     info.Type,
			Title:    info.Title,
			URL:      info.URL,
			Attached: info.Attached,
		})
	}
	return out, nil
}

// LoadUnpacked loads an unpacked extension and returns the id the browser
// assigned to it.
func (d *Driver) LoadUnpacked(ctx context.Context, path string) (string, error) {
	exec, err := d.executor(ctx)
	if err != nil {
		return "", err
	}
	return extensions.LoadUnpacked(path).Do(exec)
}

func (d *Driver) executor(ctx context.Context) (context.Context, error) {
	c := chromedp.FromContext(d.ctx)
	if c == nil || c.Browser == nil || d.ctx.Err() != nil {
		return nil, ErrNotStarted
	}
	return cdp.WithExecutor(ctx, c.Browser), nil
}

// Session launches and owns one browser process.
type Session struct {
	cfg    Config
	logger *logging.Logger
	id     id.SessionID

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	process       *os.Process
	driver        *Driver
	tempDir       string
}

// NewSession creates a session; nothing is launched until Start.
func NewSession(cfg Config, logger *logging.Logger) *Session {
	sid := id.NewSessionID()
	return &Session{
		cfg:    cfg.withDefaults(),
		logger: logging.OrNop(logger).Named("browser").With(zap.String("session_id", sid.String())),
		id:     sid,
	}
}

// ID returns the session id
func (s *Session) ID() id.SessionID { return s.id }

// Config returns the effective configuration
func (s *Session) Config() Config { return s.cfg }

// Driver returns the driver of a started session, or nil
func (s *Session) Driver() *Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.driver
}

// Start launches the browser through chromedp and connects to it. ctx bounds
// startup only; the process keeps running until Stop. Every failure is a
// *LaunchError and leaves nothing behind.
func (s *Session) Start(ctx context.Context) (*Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.driver != nil {
		return s.driver, nil
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, s.launchError(ErrUnsupportedBrowser, err)
	}

	binary, err := ResolveBinary(s.cfg.Browser, s.cfg.BinaryPath)
	if err != nil {
		return nil, s.launchError(ErrBinaryNotFound, err)
	}

	extensionPath, err := absExtensionPath(s.cfg.ExtensionPath)
	if err != nil {
		return nil, s.launchError(ErrLaunch, err)
	}

	userDataDir, err := s.prepareUserDataDir()
	if err != nil {
		return nil, s.launchError(ErrLaunch, err)
	}

	port := s.cfg.DebugPort
	if port == 0 {
		if port, err = freePort(); err != nil {
			s.cleanup()
			return nil, s.launchError(ErrLaunch, err)
		}
	}

	sugar := s.logger.Sugar()
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(),
		allocatorOptions(s.cfg, binary, userDataDir, extensionPath, port)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Warnf),
	)
	s.allocCancel, s.browserCtx, s.browserCancel = allocCancel, browserCtx, browserCancel

	// the first Run allocates the browser; it must not carry a deadline or
	// the browser dies with it
	startCtx, cancel := context.WithTimeout(ctx, s.cfg.StartTimeout)
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- chromedp.Run(browserCtx) }()

	select {
	case err = <-runErr:
		if err != nil {
			s.teardown()
			return nil, s.launchError(ErrLaunch, fmt.Errorf("start %s: %w", binary, err))
		}
	case <-startCtx.Done():
		browserCancel()
		<-runErr
		s.teardown()
		return nil, s.launchError(ErrDevTools, fmt.Errorf("no devtools connection within %s: %w", s.cfg.StartTimeout, startCtx.Err()))
	}

	if c := chromedp.FromContext(browserCtx); c != nil && c.Browser != nil {
		s.process = c.Browser.Process()
	}

	version, err := fetchVersion(startCtx, newDevToolsClient("http://127.0.0.1:"+strconv.Itoa(port)))
	if err != nil {
		s.teardown()
		return nil, s.launchError(ErrDevTools, err)
	}

	pid := 0
	if s.process != nil {
		pid = s.process.Pid
	}
	s.driver = &Driver{ctx: browserCtx, version: version, pid: pid}

	s.logger.Info("browser started",
		zap.String("binary", binary),
		zap.String("browser", version.Browser),
		zap.Int("pid", pid),
		zap.Int("debug_port", port),
		zap.String("user_data_dir", userDataDir),
	)
	return s.driver, nil
}

func (s *Session) prepareUserDataDir() (string, error) {
	switch {
	case s.cfg.UserDataDir != "":
		return s.cfg.UserDataDir, os.MkdirAll(s.cfg.UserDataDir, 0o700)
	case s.cfg.UseSystemProfile:
		return SystemUserDataDir(s.cfg.Browser)
	default:
		dir, err := os.MkdirTemp("", "runyx-profile-*")
		if err != nil {
			return "", fmt.Errorf("create temp profile: %w", err)
		}
		s.tempDir = dir
		return dir, nil
	}
}

// Stop closes the browser gracefully through chromedp.Cancel, kills it after
// the grace period, and removes a temporary profile. Safe to call repeatedly.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.browserCtx != nil {
		done := make(chan error, 1)
		go func(ctx context.Context) { done <- chromedp.Cancel(ctx) }(s.browserCtx)

		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Debug("graceful close failed", zap.Error(err))
			}
		case <-time.After(s.cfg.StopGrace):
			s.logger.Warn("browser did not exit, killing", zap.Duration("grace", s.cfg.StopGrace))
			if s.process != nil {
				if err := s.process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
					errs = append(errs, fmt.Errorf("kill browser: %w", err))
				}
			}
			<-done
		}
		s.logger.Info("browser stopped")
	}
	s.release()

	if err := s.removeTempDir(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// release cancels the chromedp contexts; the allocator cancel waits for the
// process to exit.
func (s *Session) release() {
	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.allocCancel, s.browserCtx, s.browserCancel = nil, nil, nil
	s.process, s.driver = nil, nil
}

// teardown releases a half-started browser
func (s *Session) teardown() {
	s.release()
	s.cleanup()
}

func (s *Session) cleanup() {
	if err := s.removeTempDir(); err != nil {
		s.logger.Warn("failed to remove temp profile", zap.Error(err))
	}
}

func (s *Session) removeTempDir() error {
	if s.tempDir == "" {
		return nil
	}
	dir := s.tempDir
	s.tempDir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove temp profile %s: %w", dir, err)
	}
	return nil
}

func (s *Session) launchError(kind, err error) *LaunchError {
	s.logger.Error("browser launch failed", zap.Error(err))
	return &LaunchError{Browser: s.cfg.Browser, Kind: kind, Err: err}
}

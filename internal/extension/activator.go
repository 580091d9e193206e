package extension

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/browser"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
)

const (
	DefaultTimeout      = 15 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
)

// Driver is the part of a browser driver activation needs
type Driver interface {
	Targets(ctx context.Context) ([]browser.TargetInfo, error)
	LoadUnpacked(ctx context.Context, path string) (string, error)
}

// Activator makes sure an unpacked extension is loaded and running.
type Activator struct {
	ExtensionPath string
	Timeout       time.Duration
	PollInterval  time.Duration
	Logger        *logging.Logger
}

// NewActivator creates an activator with default timings
func NewActivator(extensionPath string, logger *logging.Logger) *Activator {
	return &Activator{
		ExtensionPath: extensionPath,
		Timeout:       DefaultTimeout,
		PollInterval:  DefaultPollInterval,
		Logger:        logger,
	}
}

// Activate returns true once a target of the extension's origin is running.
// A missing target triggers Extensions.loadUnpacked, then targets are polled
// until Timeout.
func (a *Activator) Activate(ctx context.Context, driver Driver) (bool, error) {
	logger := logging.OrNop(a.Logger).Named("extension")

	path, err := filepath.Abs(a.ExtensionPath)
	if err != nil {
		return false, &ActivationError{Path: a.ExtensionPath, Kind: ErrManifest, Err: err}
	}
	manifest, err := ReadManifest(path)
	if err != nil {
		return false, &ActivationError{Path: path, Kind: ErrManifest, Err: err}
	}

	extID := ID(path)
	logger = logger.With(zap.String("extension_id", extID), zap.String("name", manifest.Name))

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if found, err := hasTarget(ctx, driver, extID); err != nil {
		return false, &ActivationError{Path: path, ExtensionID: extID, Kind: ErrNotActivated, Err: err}
	} else if found {
		logger.Info("extension already running")
		return true, nil
	}

	switch assigned, err := driver.LoadUnpacked(ctx, path); {
	case err == nil:
		if assigned != "" && assigned != extID {
			logger.Debug("browser assigned a different id", zap.String("assigned", assigned))
			extID = assigned
		}
	case browser.IsMethodNotFound(err):
		// older browsers: rely on --load-extension
		logger.Debug("Extensions.loadUnpacked unavailable", zap.Error(err))
	default:
		logger.Warn("Extensions.loadUnpacked failed", zap.Error(err))
	}

	if err := a.poll(ctx, driver, extID); err != nil {
		return false, &ActivationError{Path: path, ExtensionID: extID, Kind: ErrNotActivated, Err: err}
	}
	logger.Info("extension activated")
	return true, nil
}

func (a *Activator) poll(ctx context.Context, driver Driver, extID string) error {
	interval := a.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		found, err := hasTarget(ctx, driver, extID)
		if found {
			return nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return errors.Join(ctx.Err(), err)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func hasTarget(ctx context.Context, driver Driver, extID string) (bool, error) {
	targets, err := driver.Targets(ctx)
	if err != nil {
		return false, err
	}
	origin := OriginURL(extID)
	for _, t := range targets {
		if strings.HasPrefix(t.URL, origin) {
			return true, nil
		}
	}
	return false, nil
}

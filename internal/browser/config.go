package browser

import (
	"fmt"
	"strings"
	"time"
)

const (
	Chrome   = "chrome"
	Edge     = "edge"
	Chromium = "chromium"
)

const (
	DefaultStartTimeout = 30 * time.Second
	defaultStopGrace    = 5 * time.Second
	defaultProfile      = "Default"
)

// Config describes how to launch the browser.
type Config struct {
	Browser    string
	BinaryPath string

	// UseSystemProfile runs the browser on the user's real profile directory
	// instead of a throwaway one.
	UseSystemProfile bool
	ProfileDirectory string
	UserDataDir      string
	// UseProfileExtensions keeps the profile's installed extensions enabled
	// next to ExtensionPath.
	UseProfileExtensions bool

	ExtensionPath string
	Headless      bool
	// DebugPort 0 picks a free port.
	DebugPort    int
	StartTimeout time.Duration
	StopGrace    time.Duration
	ExtraArgs    []string
}

// DefaultConfig launches Chrome with a temporary profile
func DefaultConfig() Config {
	return Config{
		Browser:      Chrome,
		StartTimeout: DefaultStartTimeout,
		StopGrace:    defaultStopGrace,
	}
}

func (c Config) withDefaults() Config {
	c.Browser = strings.ToLower(strings.TrimSpace(c.Browser))
	if c.Browser == "" {
		c.Browser = Chrome
	}
	if c.StartTimeout <= 0 {
		c.StartTimeout = DefaultStartTimeout
	}
	if c.StopGrace <= 0 {
		c.StopGrace = defaultStopGrace
	}
	if c.UseSystemProfile && c.ProfileDirectory == "" {
		c.ProfileDirectory = defaultProfile
	}
	c.ExtraArgs = append([]string(nil), c.ExtraArgs...)
	return c
}

// Validate checks the browser name and port
func (c Config) Validate() error {
	switch c.Browser {
	case Chrome, Edge, Chromium:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedBrowser, c.Browser)
	}
	if c.DebugPort < 0 || c.DebugPort > 65535 {
		return fmt.Errorf("invalid debug port %d", c.DebugPort)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/runyx-bridge/internal/api/middleware"
	"github.com/GriffinCanCode/runyx-bridge/internal/app"
	"github.com/GriffinCanCode/runyx-bridge/internal/bridge"
	"github.com/GriffinCanCode/runyx-bridge/internal/browser"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
)

// Config holds all application configuration.
type Config struct {
	Bridge    BridgeConfig    `yaml:"bridge" toml:"bridge" json:"bridge"`
	Browser   BrowserConfig   `yaml:"browser" toml:"browser" json:"browser"`
	App       AppConfig       `yaml:"app" toml:"app" json:"app"`
	Logging   LogConfig       `yaml:"logging" toml:"logging" json:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit" json:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics" json:"metrics"`
}

// BridgeConfig holds transport configuration. Zero host and ports mean
// "unset": a project file or the defaults fill them.
type BridgeConfig struct {
	Host            string   `envconfig:"RUNYX_HOST" yaml:"host" toml:"host" json:"host"`
	HTTPPort        int      `envconfig:"RUNYX_HTTP_PORT" yaml:"http_port" toml:"http_port" json:"http_port"`
	WSPort          int      `envconfig:"RUNYX_WS_PORT" yaml:"ws_port" toml:"ws_port" json:"ws_port"`
	Requests        bool     `envconfig:"RUNYX_REQUESTS" default:"true" yaml:"requests" toml:"requests" json:"requests"`
	WebSocket       bool     `envconfig:"RUNYX_WEBSOCKET" default:"true" yaml:"websocket" toml:"websocket" json:"websocket"`
	Background      bool     `envconfig:"RUNYX_BACKGROUND" default:"false" yaml:"background" toml:"background" json:"background"`
	ShutdownTimeout Duration `envconfig:"RUNYX_SHUTDOWN_TIMEOUT" default:"3s" yaml:"shutdown_timeout" toml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxBodyBytes    int64    `envconfig:"RUNYX_MAX_BODY_BYTES" default:"33554432" yaml:"max_body_bytes" toml:"max_body_bytes" json:"max_body_bytes"`
	UploadDir       string   `envconfig:"RUNYX_UPLOAD_DIR" default:"uploads" yaml:"upload_dir" toml:"upload_dir" json:"upload_dir"`
}

// BrowserConfig holds browser launch configuration.
type BrowserConfig struct {
	Browser              string   `envconfig:"RUNYX_BROWSER" yaml:"browser" toml:"browser" json:"browser"`
	BinaryPath           string   `envconfig:"RUNYX_BROWSER_BINARY" yaml:"binary_path" toml:"binary_path" json:"binary_path"`
	UseSystemProfile     bool     `envconfig:"RUNYX_USE_SYSTEM_PROFILE" yaml:"use_system_profile" toml:"use_system_profile" json:"use_system_profile"`
	ProfileDirectory     string   `envconfig:"RUNYX_PROFILE_DIRECTORY" yaml:"profile_directory" toml:"profile_directory" json:"profile_directory"`
	UserDataDir          string   `envconfig:"RUNYX_USER_DATA_DIR" yaml:"user_data_dir" toml:"user_data_dir" json:"user_data_dir"`
	UseProfileExtensions bool     `envconfig:"RUNYX_USE_PROFILE_EXTENSIONS" yaml:"use_profile_extensions" toml:"use_profile_extensions" json:"use_profile_extensions"`
	Headless             bool     `envconfig:"RUNYX_HEADLESS" yaml:"headless" toml:"headless" json:"headless"`
	DebugPort            int      `envconfig:"RUNYX_DEBUG_PORT" yaml:"debug_port" toml:"debug_port" json:"debug_port"`
	StartTimeout         Duration `envconfig:"RUNYX_BROWSER_START_TIMEOUT" default:"30s" yaml:"start_timeout" toml:"start_timeout" json:"start_timeout"`
	ExtraArgs            []string `envconfig:"RUNYX_BROWSER_ARGS" yaml:"extra_args" toml:"extra_args" json:"extra_args"`
}

// AppConfig holds orchestration configuration.
type AppConfig struct {
	ExtensionPath     string   `envconfig:"RUNYX_EXTENSION_PATH" yaml:"extension_path" toml:"extension_path" json:"extension_path"`
	ImportPath        string   `envconfig:"RUNYX_IMPORT_PATH" yaml:"import_path" toml:"import_path" json:"import_path"`
	RequireImport     bool     `envconfig:"RUNYX_REQUIRE_IMPORT" default:"true" yaml:"require_import" toml:"require_import" json:"require_import"`
	AutoActivate      bool     `envconfig:"RUNYX_AUTO_ACTIVATE" default:"true" yaml:"auto_activate" toml:"auto_activate" json:"auto_activate"`
	KeepAlive         bool     `envconfig:"RUNYX_KEEP_ALIVE" default:"true" yaml:"keep_alive" toml:"keep_alive" json:"keep_alive"`
	ActivationTimeout Duration `envconfig:"RUNYX_ACTIVATION_TIMEOUT" default:"15s" yaml:"activation_timeout" toml:"activation_timeout" json:"activation_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level" toml:"level" json:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development" toml:"development" json:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" yaml:"rps" toml:"rps" json:"rps"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" yaml:"burst" toml:"burst" json:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"false" yaml:"enabled" toml:"enabled" json:"enabled"`
}

// MetricsConfig holds prometheus configuration.
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false" yaml:"enabled" toml:"enabled" json:"enabled"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics" yaml:"path" toml:"path" json:"path"`
}

// Duration is a time.Duration written as "3s" in env and files.
type Duration time.Duration

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Requests:        true,
			WebSocket:       true,
			ShutdownTimeout: Duration(bridge.DefaultShutdownTimeout),
			MaxBodyBytes:    32 << 20,
			UploadDir:       "uploads",
		},
		Browser: BrowserConfig{
			StartTimeout: Duration(browser.DefaultStartTimeout),
		},
		App: AppConfig{
			RequireImport:     true,
			AutoActivate:      true,
			KeepAlive:         true,
			ActivationTimeout: Duration(15 * time.Second),
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
		},
		Metrics: MetricsConfig{
			Path: bridge.DefaultMetricsPath,
		},
	}
}

// LoadFile overlays the file at path onto cfg. Only keys present in the
// file change; the format follows the extension.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json":
		err = sonic.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// BridgeConfig returns the standalone bridge configuration with unset
// host and ports defaulted.
func (c *Config) BridgeConfig() bridge.Config {
	out := c.rawBridge()
	if out.Host == "" {
		out.Host = bridge.DefaultHost
	}
	if out.HTTPPort == 0 {
		out.HTTPPort = bridge.DefaultHTTPPort
	}
	if out.WSPort == 0 {
		out.WSPort = bridge.DefaultWSPort
	}
	return out
}

func (c *Config) rawBridge() bridge.Config {
	out := bridge.Config{
		Host:            c.Bridge.Host,
		HTTPPort:        c.Bridge.HTTPPort,
		WSPort:          c.Bridge.WSPort,
		Requests:        c.Bridge.Requests,
		WebSocket:       c.Bridge.WebSocket,
		OnBackground:    c.Bridge.Background,
		ShutdownTimeout: c.Bridge.ShutdownTimeout.Std(),
		MaxBodyBytes:    c.Bridge.MaxBodyBytes,
		Metrics:         c.Metrics.Enabled,
		MetricsPath:     c.Metrics.Path,
	}
	if c.RateLimit.Enabled {
		out.RateLimit = &middleware.RateLimitConfig{
			RequestsPerSecond: c.RateLimit.RequestsPerSecond,
			Burst:             c.RateLimit.Burst,
		}
	}
	return out
}

// BrowserConfig returns the browser launch configuration
func (c *Config) BrowserConfig() browser.Config {
	return browser.Config{
		Browser:              c.Browser.Browser,
		BinaryPath:           c.Browser.BinaryPath,
		UseSystemProfile:     c.Browser.UseSystemProfile,
		ProfileDirectory:     c.Browser.ProfileDirectory,
		UserDataDir:          c.Browser.UserDataDir,
		UseProfileExtensions: c.Browser.UseProfileExtensions,
		ExtensionPath:        c.App.ExtensionPath,
		Headless:             c.Browser.Headless,
		DebugPort:            c.Browser.DebugPort,
		StartTimeout:         c.Browser.StartTimeout.Std(),
		ExtraArgs:            c.Browser.ExtraArgs,
	}
}

// AppConfig returns the orchestrator configuration. Host and ports stay
// unset when not configured so the imported project can provide them.
func (c *Config) AppConfig() app.Config {
	return app.Config{
		Bridge:            c.rawBridge(),
		Browser:           c.BrowserConfig(),
		ExtensionPath:     c.App.ExtensionPath,
		ImportProjectPath: c.App.ImportPath,
		RequireImport:     c.App.RequireImport,
		AutoActivate:      c.App.AutoActivate,
		ActivationTimeout: c.App.ActivationTimeout.Std(),
		KeepAlive:         c.App.KeepAlive,
	}
}

// LoggerConfig returns the logger configuration
func (c *Config) LoggerConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if c.Logging.Development {
		cfg = logging.DevelopmentConfig()
	}
	if c.Logging.Level != "" {
		cfg.Level = c.Logging.Level
	}
	return cfg
}

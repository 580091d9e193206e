package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/GriffinCanCode/runyx-bridge/internal/handlers"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/runyx-bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/runyx-bridge/internal/route"
)

// loadSettings resolves configuration with precedence flags > file > env >
// defaults.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyFlags(cmd.Flags(), cfg)
	return cfg, nil
}

func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	setString(flags, "log-level", &cfg.Logging.Level)
	setBool(flags, "dev", &cfg.Logging.Development)

	setString(flags, "host", &cfg.Bridge.Host)
	setInt(flags, "http-port", &cfg.Bridge.HTTPPort)
	setInt(flags, "ws-port", &cfg.Bridge.WSPort)
	setBool(flags, "requests", &cfg.Bridge.Requests)
	setBool(flags, "websocket", &cfg.Bridge.WebSocket)
	setBool(flags, "background", &cfg.Bridge.Background)
	setString(flags, "upload-dir", &cfg.Bridge.UploadDir)
	setBool(flags, "metrics", &cfg.Metrics.Enabled)

	setString(flags, "browser", &cfg.Browser.Browser)
	setString(flags, "browser-binary", &cfg.Browser.BinaryPath)
	setBool(flags, "headless", &cfg.Browser.Headless)
	setInt(flags, "debug-port", &cfg.Browser.DebugPort)
	setString(flags, "user-data-dir", &cfg.Browser.UserDataDir)
	setBool(flags, "system-profile", &cfg.Browser.UseSystemProfile)
	setString(flags, "profile-directory", &cfg.Browser.ProfileDirectory)

	setString(flags, "extension", &cfg.App.ExtensionPath)
	setString(flags, "import", &cfg.App.ImportPath)
	setBool(flags, "require-import", &cfg.App.RequireImport)
	setBool(flags, "activate", &cfg.App.AutoActivate)
	setBool(flags, "keep-alive", &cfg.App.KeepAlive)
}

func setString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Lookup(name) != nil && flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func setInt(flags *pflag.FlagSet, name string, dst *int) {
	if flags.Lookup(name) != nil && flags.Changed(name) {
		*dst, _ = flags.GetInt(name)
	}
}

func setBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Lookup(name) != nil && flags.Changed(name) {
		*dst, _ = flags.GetBool(name)
	}
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if cfg.Logging.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// newRegistry mounts the built-in handlers writing into the upload dir
func newRegistry(cfg *config.Config, logger *logging.Logger) (*route.Registry, error) {
	registry := route.NewRegistry()
	if err := handlers.Mount(registry, cfg.Bridge.UploadDir, logger); err != nil {
		return nil, err
	}
	return registry, nil
}

func addBridgeFlags(flags *pflag.FlagSet) {
	flags.String("host", "", "Bind host (default localhost)")
	flags.Int("http-port", 0, "HTTP request bus port (default 5001)")
	flags.Int("ws-port", 0, "WebSocket hub port (default 8765)")
	flags.Bool("requests", true, "Serve the HTTP request bus")
	flags.Bool("websocket", true, "Serve the WebSocket hub")
	flags.String("upload-dir", "uploads", "Directory for received files")
	flags.Bool("metrics", false, "Expose prometheus metrics on the HTTP transport")
}

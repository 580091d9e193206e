package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/app"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import a project, start the bridge and launch the browser",
		Args:  cobra.NoArgs,
		RunE:  runApp,
	}

	flags := cmd.Flags()
	addBridgeFlags(flags)
	flags.String("extension", "", "Unpacked extension directory")
	flags.String("import", "", "Project file to import into the extension")
	flags.Bool("require-import", true, "Fail when the project file is missing")
	flags.Bool("activate", true, "Activate the extension once the browser is up")
	flags.Bool("keep-alive", true, "Block until interrupted")
	flags.String("browser", "", "Browser: chrome, edge or chromium")
	flags.String("browser-binary", "", "Explicit browser executable")
	flags.Bool("headless", false, "Run the browser headless")
	flags.Int("debug-port", 0, "DevTools port (0 picks a free one)")
	flags.String("user-data-dir", "", "Browser user data directory")
	flags.Bool("system-profile", false, "Use the installed browser profile")
	flags.String("profile-directory", "", "Profile directory inside the user data dir")
	return cmd
}

func runApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry, err := newRegistry(cfg, logger)
	if err != nil {
		return err
	}

	a := app.New(cfg.AppConfig(),
		app.WithLogger(logger),
		app.WithRegistry(registry),
	)

	ctx := cmd.Context()
	if err := a.Start(ctx); err != nil {
		logger.Error("app failed", zap.Error(err), zap.String("state", string(a.State())))
		return err
	}

	// Start returned without blocking; wait for the signal ourselves.
	if a.State() == app.StateRunning {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Stop(stopCtx)
	}
	return nil
}

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/runyx-bridge/internal/bridge"
)

func newBridgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Start the HTTP and WebSocket transports",
		Args:  cobra.NoArgs,
		RunE:  runBridge,
	}
	addBridgeFlags(cmd.Flags())
	cmd.Flags().Bool("background", false, "Serve every transport on worker goroutines")
	return cmd
}

func runBridge(cmd *cobra.Command, _ []string) error {
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

	b := bridge.New(cfg.BridgeConfig(),
		bridge.WithRegistry(registry),
		bridge.WithLogger(logger),
	)

	ctx := cmd.Context()
	h, err := b.Start(ctx)
	if err != nil {
		logger.Error("bridge failed", zap.Error(err))
		return err
	}

	if cfg.Bridge.Background {
		for _, t := range h.Transports() {
			logger.Info("listening", zap.String("transport", t.Name), zap.String("url", t.URL()))
		}
		select {
		case <-ctx.Done():
		case <-h.Done():
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Bridge.ShutdownTimeout.Std()+time.Second)
	defer cancel()
	return b.Stop(stopCtx)
}

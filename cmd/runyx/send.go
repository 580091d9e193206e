package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/runyx-bridge/internal/api/ws"
)

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send MESSAGE...",
		Short: "Send a text message to a running WebSocket hub",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, _ := cmd.Flags().GetString("endpoint")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return ws.Send(ctx, endpoint, strings.Join(args, " "))
		},
	}
	cmd.Flags().String("endpoint", ws.DefaultEndpoint, "WebSocket hub URL")
	cmd.Flags().Duration("timeout", 10*time.Second, "Dial and write timeout")
	return cmd
}

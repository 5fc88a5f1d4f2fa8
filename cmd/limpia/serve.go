package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lectorlabs/limpia/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the limpia HTTP conversion server",
		RunE: func(_ *cobra.Command, _ []string) error {
			srv := server.New(activeCfg).
				WithShutdownTimeout(time.Duration(activeCfg.Server.ShutdownTimeout) * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Backland-Labs/rosterdesk/internal/config"
	"github.com/Backland-Labs/rosterdesk/internal/logger"
	"github.com/Backland-Labs/rosterdesk/internal/server"
)

// newServeCommand creates the serve subcommand
func newServeCommand(deps *Dependencies, configPath *string) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the rosterdesk HTTP API",
		Long: `Start an HTTP server that answers questions through the assistant.

Endpoints:
  POST   /ask            {"message": "...", "threadId": "..."} with an X-User-Role header
  DELETE /threads/{id}   end a conversation
  GET    /tools          list the scheduling tools
  GET    /health         liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(deps, *configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)
			go func() {
				select {
				case <-sigChan:
					deps.Printer.Warning("Interrupt received, shutting down gracefully...")
					cancel()
				case <-ctx.Done():
				}
			}()

			return runServer(ctx, deps, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the HTTP server on (default from config)")

	return cmd
}

// runServer wires the application and serves until ctx is canceled
func runServer(ctx context.Context, deps *Dependencies, cfg *config.Config) error {
	a, err := newApp(ctx, deps, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.NewServer(server.Config{
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, a.assistant, a.registry)

	deps.Printer.Info("Serving agent %s on port %d", a.assistant.Agent().ID, cfg.Server.Port)
	err = srv.Start(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("rosterdesk stopped")
		return nil
	}
	return err
}

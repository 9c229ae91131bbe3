package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-docstore/pkg/server"
	"github.com/adfharrison1/go-docstore/pkg/storage"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the query server",
		Example: `  docstore serve --secret s3cret                 # Start with defaults
  docstore serve --port 9090 --secret s3cret     # Custom port
  docstore serve --background-save 5m            # Snapshot every 5 minutes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Server.Port, _ = flags.GetInt("port")
			}
			if flags.Changed("data-file") {
				cfg.Server.DataFile, _ = flags.GetString("data-file")
			}
			if flags.Changed("background-save") {
				cfg.Server.BackgroundSave, _ = flags.GetDuration("background-save")
			}
			if flags.Changed("secret") {
				cfg.Server.Secrets, _ = flags.GetStringSlice("secret")
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			storageOptions := []storage.StorageOption{storage.WithDataFile(cfg.Server.DataFile)}
			if cfg.Server.BackgroundSave > 0 {
				storageOptions = append(storageOptions, storage.WithBackgroundSave(cfg.Server.BackgroundSave))
				logger.Info().Dur("interval", cfg.Server.BackgroundSave).Msg("background save enabled")
			} else {
				logger.Warn().Msg("background save disabled, data only saved on graceful shutdown")
			}

			srv := server.NewServer(cfg.Server.Secrets, logger, storageOptions...)
			logger.Info().Str("file", cfg.Server.DataFile).Msg("loading data")
			if err := srv.InitDB(cfg.Server.DataFile); err != nil {
				return err
			}
			srv.StartBackgroundWorkers()
			defer srv.StopBackgroundWorkers()

			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:           srv.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				logger.Info().Int("port", cfg.Server.Port).Msg("starting docstore server")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case err := <-serveErr:
				if err != nil {
					return fmt.Errorf("server failed to start: %w", err)
				}
			}
			logger.Info().Msg("shutting down server")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(ctx); err != nil {
				logger.Error().Err(err).Msg("server forced to shutdown")
			}

			srv.StopBackgroundWorkers()
			logger.Info().Str("file", cfg.Server.DataFile).Msg("saving data")
			if err := srv.SaveDB(cfg.Server.DataFile); err != nil {
				return err
			}

			logger.Info().Msg("server exited")
			return nil
		},
	}

	cmd.Flags().Int("port", 8443, "server port")
	cmd.Flags().String("data-file", "docstore_data.gods", "snapshot file path")
	cmd.Flags().Duration("background-save", 0, "background save interval (e.g. 5m, 30s), 0 disables")
	cmd.Flags().StringSlice("secret", nil, "accepted bearer secret (repeatable)")
	return cmd
}

package nutri

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/saadjs/nutri/internal/api"
	"github.com/saadjs/nutri/internal/log"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := log.ParseLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger := log.New(log.Config{Level: level, Output: os.Stdout})
		log.SetDefault(logger)
		gin.SetMode(gin.ReleaseMode)

		return withSession(logger, func(s *session) error {
			var estimator api.Estimator
			if cfg.AIEnabled() {
				client, err := newEstimator(cfg, logger)
				if err != nil {
					return err
				}
				estimator = client
			} else {
				logger.Warn("GEMINI_API_KEY not set, AI routes will return 503")
			}

			handler := api.NewHandler(s.tracker, estimator, cfg.ShareBaseURL, logger).
				WithFoodDatabase(newFoodDatabase(cfg))
			srv := &http.Server{
				Addr:           ":" + cfg.Port,
				Handler:        handler.Router(),
				ReadTimeout:    10 * time.Second,
				WriteTimeout:   2 * time.Minute,
				IdleTimeout:    60 * time.Second,
				MaxHeaderBytes: 1 << 16,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting nutri server", log.FieldOperation, log.OpStartup, "port", cfg.Port, "db", cfg.DBPath, "ai", cfg.AIEnabled())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutdown signal received", log.FieldOperation, log.OpShutdown)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info("server stopped gracefully", log.FieldOperation, log.OpShutdown)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (default $PORT or 8080)")
}

package cmd

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
	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/api"
	"github.com/schemascan/schemascan/internal/crawler"
	"github.com/schemascan/schemascan/internal/extractor"
	"github.com/schemascan/schemascan/internal/storage/memory"
)

// newServeCmd creates the 'serve' subcommand: the HTTP API for submitting
// crawl jobs, polling progress, and fetching grouped results.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the crawl job API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			defer application.close()
			cfg, logger := application.cfg, application.logger

			fetcher, err := crawler.NewCollyFetcher(cfg.Crawler.UserAgent, cfg.Timeout(), cfg.Crawler.MaxPageBytes, logger)
			if err != nil {
				return fmt.Errorf("init fetcher: %w", err)
			}
			engine := crawler.New(fetcher, extractor.New(logger), logger)
			jobs := memory.NewJobStore()
			runner := api.NewRunner(engine, jobs, logger)
			server := api.NewServer(jobs, runner, cfg, logger)

			httpServer := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:           server.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					logger.Warn("server shutdown failed", zap.Error(err))
				}
			}()

			logger.Info("api server listening", zap.String("addr", httpServer.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
}

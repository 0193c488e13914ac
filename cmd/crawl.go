package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/crawler"
	"github.com/schemascan/schemascan/internal/export"
	"github.com/schemascan/schemascan/internal/extractor"
	"github.com/schemascan/schemascan/internal/grouper"
)

var invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// newCrawlCmd creates the 'crawl' subcommand: a one-shot crawl of a single
// domain that writes the resulting snapshot to the output directory.
func newCrawlCmd() *cobra.Command {
	var (
		maxPages      int
		maxDepth      int
		delayMs       int
		respectRobots bool
	)

	cmd := &cobra.Command{
		Use:   "crawl <domain>",
		Short: "Crawl a site and export its structured data",
		Long: `Crawls the given domain breadth-first, streams extracted structured-data
items as pages are visited, then groups everything into deduplicated snippets
and writes a JSON snapshot to the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			defer application.close()
			cfg, logger := application.cfg, application.logger

			opts := crawler.Options{
				MaxPages:      cfg.Crawler.MaxPages,
				MaxDepth:      cfg.Crawler.MaxDepth,
				Delay:         cfg.Delay(),
				RespectRobots: cfg.Crawler.RespectRobots,
			}
			if cmd.Flags().Changed("max-pages") {
				opts.MaxPages = maxPages
			}
			if cmd.Flags().Changed("max-depth") {
				opts.MaxDepth = maxDepth
			}
			if cmd.Flags().Changed("delay-ms") {
				opts.Delay = time.Duration(delayMs) * time.Millisecond
			}
			if cmd.Flags().Changed("respect-robots") {
				opts.RespectRobots = respectRobots
			}

			fetcher, err := crawler.NewCollyFetcher(cfg.Crawler.UserAgent, cfg.Timeout(), cfg.Crawler.MaxPageBytes, logger)
			if err != nil {
				return fmt.Errorf("init fetcher: %w", err)
			}
			engine := crawler.New(fetcher, extractor.New(logger), logger)

			// Ctrl-C turns into cooperative cancellation and a stopped
			// outcome with partial results.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hooks := crawler.Hooks{
				OnProgress: func(pagesCrawled, itemsFound int) {
					logger.Debug("crawl progress",
						zap.Int("pages_crawled", pagesCrawled),
						zap.Int("items_found", itemsFound),
					)
				},
			}

			domain := args[0]
			result, err := engine.Run(ctx, domain, opts, hooks)
			if err != nil {
				return fmt.Errorf("run crawl: %w", err)
			}

			snippets := grouper.Group(result.Items)
			sink, err := export.NewFileSink(cfg.Output.Dir, logger)
			if err != nil {
				return fmt.Errorf("init snapshot sink: %w", err)
			}
			name := fmt.Sprintf("%s_%s",
				invalidFilenameChars.ReplaceAllString(domain, "_"),
				time.Now().UTC().Format("20060102T150405Z"),
			)
			path, err := sink.Write(cmd.Context(), name, export.NewSnapshot(result.Items, snippets))
			if err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			logger.Info("crawl finished",
				zap.String("status", string(result.Status)),
				zap.Int("pages_crawled", result.PagesCrawled),
				zap.Int("items_found", result.ItemsFound),
				zap.Int("snippets", len(snippets)),
				zap.String("snapshot", path),
			)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "pages-crawled budget (overrides config)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum link-follow depth (overrides config)")
	cmd.Flags().IntVar(&delayMs, "delay-ms", 0, "politeness delay between fetches in ms (overrides config)")
	cmd.Flags().BoolVar(&respectRobots, "respect-robots", true, "honor robots.txt rules (overrides config)")
	return cmd
}

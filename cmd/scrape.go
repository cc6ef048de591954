package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/terrovin/winemaker-crawler/internal/config"
	"github.com/terrovin/winemaker-crawler/internal/extract"
	"github.com/terrovin/winemaker-crawler/internal/fetcher"
	"github.com/terrovin/winemaker-crawler/internal/logging"
	"github.com/terrovin/winemaker-crawler/internal/pipeline"
	"github.com/terrovin/winemaker-crawler/internal/sitemap"
	"github.com/terrovin/winemaker-crawler/internal/store"
	"github.com/terrovin/winemaker-crawler/internal/translate"
)

// newScrapeCmd creates the 'scrape' subcommand, which runs the pipeline once.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Runs one scrape of the configured sitemap",
		Long: `Fetches the configured sitemap, filters candidate profile URLs, and for
each URL not already recorded: fetches the page, extracts its text, translates
it, and appends the result. The full table is persisted once at the end.`,

		RunE: runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()

	profileStore, cleanup, err := buildStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	translator, err := translate.NewGemini(ctx, translate.GeminiConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
		Model:  cfg.Translate.Model,
	})
	if err != nil {
		return fmt.Errorf("init translator: %w", err)
	}

	p := pipeline.New(
		pipeline.Config{
			SitemapURL:     cfg.Sitemap.URL,
			Exclusions:     cfg.Sitemap.Exclusions,
			SourceLanguage: cfg.Translate.Source,
			TargetLanguage: cfg.Translate.Target,
			Delay:          cfg.Delay(),
		},
		profileStore,
		sitemap.NewClient(sitemap.Config{UserAgent: cfg.HTTP.UserAgent, Timeout: cfg.Timeout()}),
		fetcher.New(fetcher.Config{UserAgent: cfg.HTTP.UserAgent, Timeout: cfg.Timeout()}),
		extract.NewSquarespace(cfg.Extract.BlockSelector),
		translator,
		logger,
	)

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("Scrape failed", zap.String("run_id", summary.RunID), zap.Error(err))
		return fmt.Errorf("run scrape: %w", err)
	}

	logger.Info("Scrape finished",
		zap.String("run_id", summary.RunID),
		zap.Int("appended", summary.Appended),
		zap.Int("skipped", summary.Skipped),
	)
	return nil
}

func buildStore(cmd *cobra.Command, cfg config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		pg, err := store.NewPostgresStore(cmd.Context(), cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres store: %w", err)
		}
		return pg, func() { pg.Close() }, nil
	default:
		return store.NewCSVStore(cfg.Store.CSVPath), func() {}, nil
	}
}

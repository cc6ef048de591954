// Package pipeline runs the fetch-extract-translate-append loop for one
// invocation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/terrovin/winemaker-crawler/internal/profile"
	"github.com/terrovin/winemaker-crawler/internal/sitemap"
)

// SitemapSource retrieves the candidate entries for a sitemap URL.
type SitemapSource interface {
	Fetch(ctx context.Context, sitemapURL string) ([]sitemap.Entry, error)
}

// PageFetcher retrieves one profile page body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor turns a page body into the profile's free text.
type Extractor interface {
	Extract(body []byte) (string, error)
}

// Translator converts extracted text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Store loads the prior table and persists the updated one.
type Store interface {
	Load(ctx context.Context) (*profile.Table, error)
	Save(ctx context.Context, table *profile.Table) error
}

// Config holds the run parameters the pipeline needs beyond its collaborators.
type Config struct {
	SitemapURL     string
	Exclusions     []string
	SourceLanguage string
	TargetLanguage string
	Delay          time.Duration
}

// Summary reports what one run did.
type Summary struct {
	RunID      string
	Candidates int
	Skipped    int
	Appended   int
}

// Pipeline executes the scrape sequentially: load, fetch sitemap, filter, then
// fetch-extract-translate-append per candidate, and one save at the end. Any
// network, parse, or translation failure aborts the run; only rows persisted
// by a previous successful run survive a failure.
type Pipeline struct {
	cfg        Config
	store      Store
	sitemaps   SitemapSource
	pages      PageFetcher
	extractor  Extractor
	translator Translator
	logger     *zap.Logger
}

// New wires a pipeline from its collaborators.
func New(cfg Config, store Store, sitemaps SitemapSource, pages PageFetcher, extractor Extractor, translator Translator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:        cfg,
		store:      store,
		sitemaps:   sitemaps,
		pages:      pages,
		extractor:  extractor,
		translator: translator,
		logger:     logger,
	}
}

// Run executes one pass over the sitemap.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	logger := p.logger.With(zap.String("run_id", summary.RunID))

	table, err := p.store.Load(ctx)
	if err != nil {
		return summary, fmt.Errorf("load existing profiles: %w", err)
	}
	logger.Info("Loaded existing profiles", zap.Int("rows", table.Len()))

	entries, err := p.sitemaps.Fetch(ctx, p.cfg.SitemapURL)
	if err != nil {
		return summary, fmt.Errorf("fetch sitemap: %w", err)
	}

	candidates := sitemap.Filter(entries, p.cfg.Exclusions)
	summary.Candidates = len(candidates)
	logger.Info("Sitemap filtered",
		zap.Int("entries", len(entries)),
		zap.Int("candidates", len(candidates)),
	)

	for _, candidate := range candidates {
		if table.Has(candidate.Loc) {
			summary.Skipped++
			logger.Debug("Skipping recorded profile", zap.String("url", candidate.Loc))
			continue
		}

		if err := p.scrapeCandidate(ctx, table, candidate, logger); err != nil {
			return summary, err
		}
		summary.Appended++

		if err := p.pause(ctx); err != nil {
			return summary, err
		}
	}

	if err := p.store.Save(ctx, table); err != nil {
		return summary, fmt.Errorf("save profiles: %w", err)
	}
	logger.Info("Run complete",
		zap.Int("candidates", summary.Candidates),
		zap.Int("skipped", summary.Skipped),
		zap.Int("appended", summary.Appended),
		zap.Int("rows", table.Len()),
	)
	return summary, nil
}

func (p *Pipeline) scrapeCandidate(ctx context.Context, table *profile.Table, candidate sitemap.Entry, logger *zap.Logger) error {
	body, err := p.pages.Fetch(ctx, candidate.Loc)
	if err != nil {
		return fmt.Errorf("fetch profile %s: %w", candidate.Loc, err)
	}

	info, err := p.extractor.Extract(body)
	if err != nil {
		return fmt.Errorf("extract profile %s: %w", candidate.Loc, err)
	}
	logger.Info("Retrieved profile",
		zap.String("winemaker", candidate.Title),
		zap.String("url", candidate.Loc),
	)

	translated, err := p.translator.Translate(ctx, info, p.cfg.SourceLanguage, p.cfg.TargetLanguage)
	if err != nil {
		return fmt.Errorf("translate profile %s: %w", candidate.Loc, err)
	}
	logger.Info("Translated profile", zap.String("winemaker", candidate.Title))

	table.Append(profile.Record{
		URL:         candidate.Loc,
		Winemaker:   candidate.Title,
		Translated:  translated,
		Information: info,
	})
	return nil
}

// pause waits the configured inter-request delay, honoring cancellation.
func (p *Pipeline) pause(ctx context.Context) error {
	if p.cfg.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("run canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

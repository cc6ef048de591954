// Package sitemap fetches and filters a site's XML sitemap.
package sitemap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// Entry is one sitemap URL with its image title. The title doubles as the
// winemaker label on terrovin.be profile pages.
type Entry struct {
	Loc   string
	Title string
}

// Config controls the sitemap request.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client retrieves sitemap documents over HTTP.
type Client struct {
	cfg Config
}

// NewClient builds a sitemap client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{cfg: cfg}
}

// Fetch performs one GET on the sitemap URL and returns its entries in
// document order. Entries missing either a loc or an image title are dropped.
func (c *Client) Fetch(ctx context.Context, sitemapURL string) ([]Entry, error) {
	collector := colly.NewCollector(colly.Async(false))
	collector.IgnoreRobotsTxt = true
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(c.cfg.Timeout)

	var entries []Entry
	collector.OnXML("//urlset/url", func(e *colly.XMLElement) {
		entry := Entry{
			Loc:   strings.TrimSpace(e.ChildText("loc")),
			Title: strings.TrimSpace(e.ChildText("image:image/image:title")),
		}
		if entry.Loc == "" || entry.Title == "" {
			return
		}
		entries = append(entries, entry)
	})

	var fetchErr error
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(sitemapURL)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("sitemap fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("sitemap visit failed: %w", err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("sitemap response failed: %w", fetchErr)
		}
	}

	return entries, nil
}

// Filter drops entries whose location contains any excluded substring,
// preserving document order.
func Filter(entries []Entry, exclusions []string) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if excluded(entry.Loc, exclusions) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func excluded(loc string, exclusions []string) bool {
	for _, substr := range exclusions {
		if substr == "" {
			continue
		}
		if strings.Contains(loc, substr) {
			return true
		}
	}
	return false
}

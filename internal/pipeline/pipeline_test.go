package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrovin/winemaker-crawler/internal/profile"
	"github.com/terrovin/winemaker-crawler/internal/sitemap"
)

type fakeSitemap struct {
	entries []sitemap.Entry
	err     error
	calls   int
}

func (f *fakeSitemap) Fetch(_ context.Context, _ string) ([]sitemap.Entry, error) {
	f.calls++
	return f.entries, f.err
}

type fakeFetcher struct {
	pages   map[string]string
	err     error
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.fetched = append(f.fetched, url)
	body, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	return []byte(body), nil
}

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return strings.TrimSpace(string(body)), nil
}

type fakeTranslator struct {
	err   error
	calls []string
}

func (f *fakeTranslator) Translate(_ context.Context, text, source, target string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, text)
	return fmt.Sprintf("[%s->%s] %s", source, target, text), nil
}

type memStore struct {
	table   *profile.Table
	saved   *profile.Table
	loadErr error
	saveErr error
}

func (m *memStore) Load(_ context.Context) (*profile.Table, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.table == nil {
		m.table = profile.NewTable()
	}
	return m.table, nil
}

func (m *memStore) Save(_ context.Context, table *profile.Table) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = table
	return nil
}

func testConfig() Config {
	return Config{
		SitemapURL:     "https://example.com/sitemap.xml",
		SourceLanguage: "nl",
		TargetLanguage: "en",
	}
}

func TestRunAppendsCandidatesInSitemapOrder(t *testing.T) {
	t.Parallel()

	sitemaps := &fakeSitemap{entries: []sitemap.Entry{
		{Loc: "https://example.com/u1", Title: "Alice"},
		{Loc: "https://example.com/u2", Title: "Bob"},
	}}
	pages := &fakeFetcher{pages: map[string]string{
		"https://example.com/u1": "tekst van Alice",
		"https://example.com/u2": "tekst van Bob",
	}}
	storeFake := &memStore{}

	p := New(testConfig(), storeFake, sitemaps, pages, &fakeExtractor{}, &fakeTranslator{}, nil)
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2, summary.Candidates)
	assert.Equal(t, 2, summary.Appended)
	assert.Zero(t, summary.Skipped)

	require.NotNil(t, storeFake.saved)
	records := storeFake.saved.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "https://example.com/u1", records[0].URL)
	assert.Equal(t, "Alice", records[0].Winemaker)
	assert.Equal(t, "tekst van Alice", records[0].Information)
	assert.Equal(t, "[nl->en] tekst van Alice", records[0].Translated)
	assert.Equal(t, "Bob", records[1].Winemaker)
}

func TestRunSkipsRecordedURLs(t *testing.T) {
	t.Parallel()

	prior := profile.NewTable()
	prior.Append(profile.Record{URL: "https://example.com/u1", Winemaker: "Alice"})

	sitemaps := &fakeSitemap{entries: []sitemap.Entry{
		{Loc: "https://example.com/u1", Title: "Alice"},
		{Loc: "https://example.com/u2", Title: "Bob"},
	}}
	pages := &fakeFetcher{pages: map[string]string{
		"https://example.com/u2": "tekst van Bob",
	}}
	storeFake := &memStore{table: prior}

	p := New(testConfig(), storeFake, sitemaps, pages, &fakeExtractor{}, &fakeTranslator{}, nil)
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Appended)
	// The recorded URL was never re-fetched.
	assert.Equal(t, []string{"https://example.com/u2"}, pages.fetched)
	assert.Equal(t, 2, storeFake.saved.Len())
}

func TestSecondRunAppendsNothing(t *testing.T) {
	t.Parallel()

	entries := []sitemap.Entry{
		{Loc: "https://example.com/u1", Title: "Alice"},
		{Loc: "https://example.com/u2", Title: "Bob"},
	}
	pages := map[string]string{
		"https://example.com/u1": "tekst 1",
		"https://example.com/u2": "tekst 2",
	}
	storeFake := &memStore{}

	first := New(testConfig(), storeFake, &fakeSitemap{entries: entries},
		&fakeFetcher{pages: pages}, &fakeExtractor{}, &fakeTranslator{}, nil)
	_, err := first.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, storeFake.saved.Len())

	rerunFetcher := &fakeFetcher{pages: pages}
	second := New(testConfig(), storeFake, &fakeSitemap{entries: entries},
		rerunFetcher, &fakeExtractor{}, &fakeTranslator{}, nil)
	summary, err := second.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Appended)
	assert.Equal(t, 2, summary.Skipped)
	assert.Empty(t, rerunFetcher.fetched)
	assert.Equal(t, 2, storeFake.saved.Len())
}

func TestRunAppliesExclusions(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Exclusions = []string{"https://example.com/contact"}

	sitemaps := &fakeSitemap{entries: []sitemap.Entry{
		{Loc: "https://example.com/contact", Title: "Contact"},
		{Loc: "https://example.com/u1", Title: "Alice"},
	}}
	pages := &fakeFetcher{pages: map[string]string{
		"https://example.com/u1": "tekst",
	}}
	storeFake := &memStore{}

	p := New(cfg, storeFake, sitemaps, pages, &fakeExtractor{}, &fakeTranslator{}, nil)
	summary, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Candidates)
	assert.Equal(t, []string{"https://example.com/u1"}, pages.fetched)
}

func TestRunFailsFastOnFetchError(t *testing.T) {
	t.Parallel()

	sitemaps := &fakeSitemap{entries: []sitemap.Entry{
		{Loc: "https://example.com/u1", Title: "Alice"},
	}}
	storeFake := &memStore{}

	p := New(testConfig(), storeFake, sitemaps,
		&fakeFetcher{err: errors.New("connection refused")},
		&fakeExtractor{}, &fakeTranslator{}, nil)
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch profile")
	// Nothing persisted for a failed run.
	assert.Nil(t, storeFake.saved)
}

func TestRunFailsFastOnTranslationError(t *testing.T) {
	t.Parallel()

	sitemaps := &fakeSitemap{entries: []sitemap.Entry{
		{Loc: "https://example.com/u1", Title: "Alice"},
	}}
	pages := &fakeFetcher{pages: map[string]string{
		"https://example.com/u1": "tekst",
	}}
	storeFake := &memStore{}

	p := New(testConfig(), storeFake, sitemaps, pages, &fakeExtractor{},
		&fakeTranslator{err: errors.New("rate limited")}, nil)
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translate profile")
	assert.Nil(t, storeFake.saved)
}

func TestRunPropagatesLoadAndSitemapErrors(t *testing.T) {
	t.Parallel()

	p := New(testConfig(), &memStore{loadErr: errors.New("disk gone")},
		&fakeSitemap{}, &fakeFetcher{}, &fakeExtractor{}, &fakeTranslator{}, nil)
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load existing profiles")

	p = New(testConfig(), &memStore{},
		&fakeSitemap{err: errors.New("dns failure")}, &fakeFetcher{}, &fakeExtractor{}, &fakeTranslator{}, nil)
	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch sitemap")
}

func TestRunTranslatorReceivesExtractedText(t *testing.T) {
	t.Parallel()

	sitemaps := &fakeSitemap{entries: []sitemap.Entry{
		{Loc: "https://example.com/u1", Title: "Alice"},
	}}
	pages := &fakeFetcher{pages: map[string]string{
		"https://example.com/u1": "  ruwe pagina tekst  ",
	}}
	translator := &fakeTranslator{}

	p := New(testConfig(), &memStore{}, sitemaps, pages, &fakeExtractor{}, translator, nil)
	_, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, translator.calls, 1)
	assert.Equal(t, "ruwe pagina tekst", translator.calls[0])
}

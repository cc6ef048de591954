package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/terrovin/winemaker-crawler/internal/profile"
)

// CSVStore persists the profile table as a single CSV file.
type CSVStore struct {
	path string
}

// NewCSVStore builds a store over the given file path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load reads the persisted table. A missing file yields an empty table with
// the bootstrap columns; any other read or parse failure propagates.
func (s *CSVStore) Load(_ context.Context) (*profile.Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile.NewTable(), nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return profile.NewTable(), nil
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	if _, ok := index["URL"]; !ok {
		return nil, fmt.Errorf("parse %s: missing URL column", s.path)
	}

	table := profile.NewTableWithColumns(header)
	for _, row := range rows[1:] {
		table.Append(profile.Record{
			URL:         field(row, index, "URL"),
			Winemaker:   field(row, index, "Winemaker"),
			Translated:  field(row, index, "Translated Information"),
			Information: field(row, index, "Information"),
		})
	}
	return table, nil
}

// Save overwrites the persisted file with the full table contents, selecting
// the four canonical columns in fixed order. The write goes through a temp
// file and rename so a crash never leaves a half-written table behind.
func (s *CSVStore) Save(_ context.Context, table *profile.Table) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create store dir %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(profile.CanonicalColumns); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range table.Records() {
		if err := w.Write([]string{r.URL, r.Winemaker, r.Translated, r.Information}); err != nil {
			f.Close()
			return fmt.Errorf("write row for %s: %w", r.URL, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("finalize %s: %w", s.path, err)
	}
	return nil
}

func field(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

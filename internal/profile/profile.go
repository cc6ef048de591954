// Package profile defines the winemaker profile record and the in-memory table
// the pipeline accumulates into.
package profile

// Record is one scraped winemaker profile. URL is the unique key.
type Record struct {
	URL         string
	Winemaker   string
	Translated  string
	Information string
}

// CanonicalColumns is the fixed column order the writer persists.
var CanonicalColumns = []string{"URL", "Winemaker", "Translated Information", "Information"}

// BootstrapColumns is the schema of a freshly created empty table. It predates
// the translation column and is kept for compatibility with tables written
// before translation was added.
var BootstrapColumns = []string{"URL", "Winemaker", "Information"}

// Table is an ordered collection of records with exact-match URL membership.
type Table struct {
	Columns []string
	records []Record
	seen    map[string]struct{}
}

// NewTable returns an empty table carrying the bootstrap columns.
func NewTable() *Table {
	return &Table{
		Columns: append([]string(nil), BootstrapColumns...),
		seen:    make(map[string]struct{}),
	}
}

// NewTableWithColumns returns an empty table with the given columns, as read
// from an existing persisted file.
func NewTableWithColumns(columns []string) *Table {
	return &Table{
		Columns: append([]string(nil), columns...),
		seen:    make(map[string]struct{}),
	}
}

// Has reports whether a record with exactly this URL is present.
func (t *Table) Has(url string) bool {
	_, ok := t.seen[url]
	return ok
}

// Append adds the record unless its URL is already present. It reports whether
// the record was added.
func (t *Table) Append(r Record) bool {
	if r.URL == "" {
		return false
	}
	if _, ok := t.seen[r.URL]; ok {
		return false
	}
	t.records = append(t.records, r)
	t.seen[r.URL] = struct{}{}
	return true
}

// Records returns the records in insertion order.
func (t *Table) Records() []Record {
	return t.records
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

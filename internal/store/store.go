// Package store persists the profile table. Two backends are available: a CSV
// file matching the original deployment, and Postgres for shared installs.
package store

import (
	"context"

	"github.com/terrovin/winemaker-crawler/internal/profile"
)

// Store reads the prior profile table at the start of a run and rewrites it in
// full at the end. There are no partial updates and no deletes.
type Store interface {
	Load(ctx context.Context) (*profile.Table, error)
	Save(ctx context.Context, table *profile.Table) error
}

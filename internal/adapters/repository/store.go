// Package repository is the persistence boundary: it round-trips the ledger
// as a single JSON document and never retains a copy of it.
package repository

import (
	"context"

	"github.com/maratona/rating/internal/domain/model"
)

// Store loads and saves the ledger document.
type Store interface {
	// Load reads the persisted ledger. Returns ErrNotFound when nothing has
	// been saved yet and ErrCorrupt when the document cannot be decoded.
	Load(ctx context.Context) (*model.Ledger, error)

	// Save persists the ledger atomically: a partially written file is never
	// observable at the target path.
	Save(ctx context.Context, ledger *model.Ledger) error
}

// Package store persists selections. Each slot holds exactly one selection,
// serialized as a JSON array of its two boundary addresses; a save replaces
// the previous value wholesale. There is no history and no partial update.
package store

import (
	"context"

	"github.com/hilite-dev/hilite/internal/anchor"
)

// Store is single-slot key-value persistence for selection pairs.
type Store interface {
	// Save writes the pair to the slot, unconditionally overwriting any
	// prior value.
	Save(ctx context.Context, key string, pair anchor.Pair) error

	// Load reads the slot. ok is false when the slot has never been written.
	Load(ctx context.Context, key string) (pair anchor.Pair, ok bool, err error)

	// Delete removes the slot. Deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error
}

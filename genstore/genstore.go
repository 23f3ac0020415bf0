package genstore

import (
	"context"
	"time"
)

// GenStore abstracts where per-key generations live.
// The Store bumps a key's generation on every Set/Remove and deferred
// write-backs commit only against the generation they observed.
type GenStore interface {
	// Snapshot returns the current generation; missing => 0.
	Snapshot(ctx context.Context, key string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, key string) (uint64, error)
	// Cleanup prunes generations not bumped within retention.
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}

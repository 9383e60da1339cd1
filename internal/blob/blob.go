// Package blob persists the full database snapshot as a single value under
// one storage key. Backends mirror the deployment variants: a JSON file on
// disk, a redis key, or a one-row sqlite table.
package blob

import "context"

// Store reads and writes the serialized snapshot.
type Store interface {
	// Load returns the stored snapshot, or (nil, nil) when none exists yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, data []byte) error
}

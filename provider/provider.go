// Package provider defines the byte-level durable store contract behind every
// persisted state flavor.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation). If a store performs internal transforms
// (e.g., compression, encryption), they MUST be fully reversed so that the bytes
// returned by Get are identical to the bytes provided to Set.
//
// Keys are scope keys of the form "<name>/<id>". Stores that map keys onto a
// hierarchical namespace split them at the first "/".
package provider

import (
	"context"
	"errors"
	"strings"
)

// ErrQuotaExceeded is returned by stores that enforce size or key-count limits.
var ErrQuotaExceeded = errors.New("provider: quota exceeded")

// Provider is a minimal byte store.
// Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64) (ok bool, err error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// SplitKey splits a scope key into its name and id parts. Keys without a "/"
// have an empty name.
func SplitKey(key string) (name, id string) {
	i := strings.IndexByte(key, '/')
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}

package metadata

import "context"

// Repository keeps string values under fixed keys, such as the signed
// session token under common.SessionMetadataKey.
type Repository interface {
	// Lookup reports ok=false when key has no value.
	Lookup(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string) error
	// Remove reports whether a value was there.
	Remove(ctx context.Context, key string) (bool, error)
}

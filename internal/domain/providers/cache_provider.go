package providers

import (
	"context"
)

// CacheProvider defines the shared response cache used for trending
// sections, popular queries and HTTP response caching. Values are opaque
// byte slices; callers own serialization.
type CacheProvider interface {
	// Get retrieves a value. Returns an error on miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an expiration in seconds.
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error

	// Exists checks whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)
}

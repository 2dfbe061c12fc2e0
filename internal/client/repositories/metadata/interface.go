package metadata

import (
	"context"
	"errors"
)

// Well-known keys.
const (
	KeySession     = "session"
	KeyLastMediaID = "last_media_id"
)

var ErrNotFound = errors.New("metadata key not found")

// Repository is a small key/value store for client state that has to survive
// restarts.
type Repository interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for a missing key.
	Delete(ctx context.Context, key string) error
}

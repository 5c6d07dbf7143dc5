package store

import "context"

// ObjectStorage holds media binaries keyed by path.
type ObjectStorage interface {
	// Put stores data under key, replacing any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the object and its content type.
	// Returns ErrObjectNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Delete returns ErrObjectNotFound if the key does not exist.
	Delete(ctx context.Context, key string) error
}

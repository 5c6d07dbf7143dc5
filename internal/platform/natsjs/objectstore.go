package natsjs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/phrazzld/buyone/internal/store"
)

const defaultContentType = "application/octet-stream"

// bucket is the part of jetstream.ObjectStore that ObjectStore uses.
type bucket interface {
	Put(ctx context.Context, obj jetstream.ObjectMeta, reader io.Reader) (*jetstream.ObjectInfo, error)
	GetBytes(ctx context.Context, name string, opts ...jetstream.GetObjectOpt) ([]byte, error)
	GetInfo(ctx context.Context, name string, opts ...jetstream.GetObjectInfoOpt) (*jetstream.ObjectInfo, error)
	Delete(ctx context.Context, name string) error
}

// ObjectStore keeps media binaries in a JetStream object store bucket,
// keyed by the media record's path.
type ObjectStore struct {
	bucket bucket
	logger *slog.Logger
}

var _ store.ObjectStorage = (*ObjectStore)(nil)

// OpenObjectStore returns the named bucket, creating it on first use.
func OpenObjectStore(ctx context.Context, js jetstream.JetStream, name string, logger *slog.Logger) (*ObjectStore, error) {
	b, err := js.ObjectStore(ctx, name)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		b, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      name,
			Description: "Uploaded images",
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open object store bucket %s: %w", name, err)
	}
	return newObjectStore(b, logger), nil
}

func newObjectStore(b bucket, logger *slog.Logger) *ObjectStore {
	return &ObjectStore{
		bucket: b,
		logger: logger.With("component", "object_store"),
	}
}

// Put stores data under key, replacing any previous object.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = defaultContentType
	}
	meta := jetstream.ObjectMeta{
		Name: key,
		Headers: nats.Header{
			"Content-Type": []string{contentType},
		},
	}

	info, err := s.bucket.Put(ctx, meta, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}

	s.logger.Debug("object stored", "key", key, "size", info.Size)
	return nil
}

// Get returns the object and its content type.
// Returns store.ErrObjectNotFound if the key does not exist.
func (s *ObjectStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	info, err := s.bucket.GetInfo(ctx, key)
	if err != nil {
		return nil, "", mapObjectError(key, err)
	}

	data, err := s.bucket.GetBytes(ctx, key)
	if err != nil {
		return nil, "", mapObjectError(key, err)
	}

	return data, contentTypeOf(info.Headers), nil
}

// Delete removes the object.
// Returns store.ErrObjectNotFound if the key does not exist.
func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		return mapObjectError(key, err)
	}
	s.logger.Debug("object deleted", "key", key)
	return nil
}

func contentTypeOf(headers nats.Header) string {
	if headers != nil {
		if ct := headers.Get("Content-Type"); ct != "" {
			return ct
		}
	}
	return defaultContentType
}

func mapObjectError(key string, err error) error {
	if errors.Is(err, jetstream.ErrObjectNotFound) {
		return fmt.Errorf("object %s: %w", key, store.ErrObjectNotFound)
	}
	return fmt.Errorf("object %s: %w", key, err)
}

package natsjs

import (
	"context"
	"io"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/phrazzld/buyone/internal/platform/logger"
	"github.com/phrazzld/buyone/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBucket is an in-memory bucket.
type memBucket struct {
	objects map[string][]byte
	meta    map[string]jetstream.ObjectMeta
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}, meta: map[string]jetstream.ObjectMeta{}}
}

func (b *memBucket) Put(_ context.Context, obj jetstream.ObjectMeta, r io.Reader) (*jetstream.ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b.objects[obj.Name] = data
	b.meta[obj.Name] = obj
	return &jetstream.ObjectInfo{ObjectMeta: obj, Size: uint64(len(data))}, nil
}

func (b *memBucket) GetBytes(_ context.Context, name string, _ ...jetstream.GetObjectOpt) ([]byte, error) {
	data, ok := b.objects[name]
	if !ok {
		return nil, jetstream.ErrObjectNotFound
	}
	return data, nil
}

func (b *memBucket) GetInfo(_ context.Context, name string, _ ...jetstream.GetObjectInfoOpt) (*jetstream.ObjectInfo, error) {
	meta, ok := b.meta[name]
	if !ok {
		return nil, jetstream.ErrObjectNotFound
	}
	return &jetstream.ObjectInfo{ObjectMeta: meta, Size: uint64(len(b.objects[name]))}, nil
}

func (b *memBucket) Delete(_ context.Context, name string) error {
	if _, ok := b.objects[name]; !ok {
		return jetstream.ErrObjectNotFound
	}
	delete(b.objects, name)
	delete(b.meta, name)
	return nil
}

func TestObjectStore_PutGetDelete(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	s := newObjectStore(newMemBucket(), log)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "product/p1/m1", []byte("png-bytes"), "image/png"))

	data, contentType, err := s.Get(ctx, "product/p1/m1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, s.Delete(ctx, "product/p1/m1"))

	_, _, err = s.Get(ctx, "product/p1/m1")
	assert.ErrorIs(t, err, store.ErrObjectNotFound)
	assert.True(t, store.IsNotFoundError(err))

	assert.ErrorIs(t, s.Delete(ctx, "product/p1/m1"), store.ErrObjectNotFound)
}

func TestObjectStore_DefaultContentType(t *testing.T) {
	_, log, cleanup := logger.SetupTestLogger(t)
	defer cleanup()

	s := newObjectStore(newMemBucket(), log)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "user/u1/m1", []byte("x"), ""))
	_, contentType, err := s.Get(ctx, "user/u1/m1")
	require.NoError(t, err)
	assert.Equal(t, defaultContentType, contentType)
}

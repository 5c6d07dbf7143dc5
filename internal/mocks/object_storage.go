package mocks

import (
	"context"

	"github.com/phrazzld/buyone/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockObjectStorage is a mock of store.ObjectStorage for use with testify/mock
type TestifyMockObjectStorage struct {
	mock.Mock
}

var _ store.ObjectStorage = (*TestifyMockObjectStorage)(nil)

// Put is a mock implementation of store.ObjectStorage.Put
func (m *TestifyMockObjectStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

// Get is a mock implementation of store.ObjectStorage.Get
func (m *TestifyMockObjectStorage) Get(ctx context.Context, key string) ([]byte, string, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

// Delete is a mock implementation of store.ObjectStorage.Delete
func (m *TestifyMockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MemoryObjectStorage is an in-memory store.ObjectStorage
type MemoryObjectStorage struct {
	Objects      map[string][]byte
	ContentTypes map[string]string
}

var _ store.ObjectStorage = (*MemoryObjectStorage)(nil)

// NewMemoryObjectStorage creates an empty storage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		Objects:      map[string][]byte{},
		ContentTypes: map[string]string{},
	}
}

// Put implements store.ObjectStorage
func (m *MemoryObjectStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.Objects[key] = data
	m.ContentTypes[key] = contentType
	return nil
}

// Get implements store.ObjectStorage
func (m *MemoryObjectStorage) Get(_ context.Context, key string) ([]byte, string, error) {
	data, ok := m.Objects[key]
	if !ok {
		return nil, "", store.ErrObjectNotFound
	}
	return data, m.ContentTypes[key], nil
}

// Delete implements store.ObjectStorage
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if _, ok := m.Objects[key]; !ok {
		return store.ErrObjectNotFound
	}
	delete(m.Objects, key)
	delete(m.ContentTypes, key)
	return nil
}

package store

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	values sync.Map
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := m.values.Load(key); ok {
		return append([]byte(nil), v.([]byte)...), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	m.values.Store(key, append([]byte(nil), value...))
	return nil
}

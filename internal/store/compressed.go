package store

import (
	"context"
	"fmt"

	"github.com/debemdeboas/the-drafts/internal/util/compression"
)

// Compressed wraps a backend so values are stored compressed.
type Compressed struct {
	Backend
	codec compression.Codec
}

func NewCompressed(b Backend, codec compression.Codec) *Compressed {
	return &Compressed{Backend: b, codec: codec}
}

func (c *Compressed) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.Backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	value, err := c.codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompressing %q: %w", key, err)
	}
	return value, nil
}

func (c *Compressed) Put(ctx context.Context, key string, value []byte) error {
	data, err := c.codec.Compress(value)
	if err != nil {
		return fmt.Errorf("compressing %q: %w", key, err)
	}
	return c.Backend.Put(ctx, key, data)
}

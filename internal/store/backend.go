// Package store persists the draft collection in a pluggable key-value backend.
package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

var storeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

var ErrNotFound = errors.New("store: key not found")

// Backend is a minimal key-value store. Get returns ErrNotFound for keys
// that were never written.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

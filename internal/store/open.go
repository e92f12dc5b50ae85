package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/db"
	"github.com/debemdeboas/the-drafts/internal/util/compression"
)

const sqliteFile = "drafts.db"

// Open builds the backend named by cfg, wrapped in the configured compression.
// The returned closer releases backend resources and is never nil.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, io.Closer, error) {
	var (
		backend Backend
		closer  io.Closer = nopCloser{}
	)

	switch cfg.Backend {
	case "", "memory":
		backend = NewMemoryBackend()
	case "file":
		fb, err := NewFileBackend(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		backend = fb
	case "sqlite":
		path := cfg.Path
		if path != ":memory:" && filepath.Ext(path) == "" {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating store directory: %w", err)
			}
			path = filepath.Join(path, sqliteFile)
		}
		database := db.NewSQLite(path)
		if err := database.InitDB(); err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		sb := NewSQLiteBackend(database)
		backend, closer = sb, sb
	case "s3":
		sb, err := NewS3Backend(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		backend = sb
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	codec, err := compression.ByName(cfg.Compression)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	if codec != nil {
		backend = NewCompressed(backend, codec)
	}

	storeLogger.Info().
		Str("backend", cfg.Backend).
		Str("compression", cfg.Compression).
		Msg("Draft store opened")

	return backend, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studiowebux/tally/internal/config"
	"github.com/studiowebux/tally/internal/types"
)

// ErrNotFound is returned by Load when nothing is stored under the key
var ErrNotFound = errors.New("snapshot not found")

// Store keeps the counter snapshot under a single key
type Store interface {
	// Load returns the stored snapshot. Undecodable payloads return an
	// error wrapping codec.ErrDecode.
	Load(ctx context.Context) (types.Snapshot, error)

	// Save replaces the stored snapshot
	Save(ctx context.Context, snap types.Snapshot) error

	// Watch emits snapshots written by other processes until ctx is
	// done, then closes the channel. Writes made through this Store and
	// payloads that fail to decode are skipped.
	Watch(ctx context.Context) (<-chan types.Snapshot, error)

	Close() error
}

// Open creates the store selected by settings
func Open(settings config.StorageSettings, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := validateKey(settings.Key); err != nil {
		return nil, err
	}

	switch settings.Backend {
	case config.BackendFile, "":
		return NewFileStore(settings.Path, settings.Key, logger)
	case config.BackendSQLite:
		return NewSQLiteStore(settings.Path, settings.Key, settings.PollInterval, logger)
	}
	return nil, fmt.Errorf("unknown storage backend %q", settings.Backend)
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

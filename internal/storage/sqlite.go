package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/studiowebux/tally/internal/codec"
	"github.com/studiowebux/tally/internal/config"
	"github.com/studiowebux/tally/internal/migrations"
	"github.com/studiowebux/tally/internal/types"
)

// SQLiteStore keeps the snapshot as a row of the kv table
type SQLiteStore struct {
	db     *sql.DB
	key    string
	poll   time.Duration
	logger *zap.Logger

	// revision is the newest kv.revision of our key this store has written
	// or delivered. Revisions only grow, so anything at or below it is
	// already known.
	mu       sync.Mutex
	revision int64
}

// NewSQLiteStore opens (and migrates) the database at dbPath
func NewSQLiteStore(dbPath, key string, poll time.Duration, logger *zap.Logger) (*SQLiteStore, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if poll <= 0 {
		poll = config.DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMA data_version is per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		key:    key,
		poll:   poll,
		logger: logger,
	}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (types.Snapshot, error) {
	value, _, err := s.read(ctx)
	if err != nil {
		return types.Snapshot{}, err
	}
	return codec.DecodeSnapshot([]byte(value))
}

func (s *SQLiteStore) read(ctx context.Context) (string, int64, error) {
	var value string
	var revision int64
	err := s.db.QueryRowContext(ctx, "SELECT value, revision FROM kv WHERE key = ?", s.key).Scan(&value, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, ErrNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to read state: %w", err)
	}
	return value, revision, nil
}

// advance records revision as known and reports whether it was new
func (s *SQLiteStore) advance(revision int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if revision <= s.revision {
		return false
	}
	s.revision = revision
	return true
}

func (s *SQLiteStore) Save(ctx context.Context, snap types.Snapshot) error {
	data, err := codec.EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	var revision int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO kv (key, value, updated_at, revision) VALUES (?, ?, CURRENT_TIMESTAMP, 1)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at,
			revision = kv.revision + 1
		RETURNING revision
	`, s.key, string(data)).Scan(&revision)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	s.advance(revision)
	return nil
}

// Watch polls PRAGMA data_version, which only moves when another
// connection commits. The store holds a single connection, so its own
// saves never move it. A moved version is reported when our key carries
// a revision newer than any this store has seen.
func (s *SQLiteStore) Watch(ctx context.Context) (<-chan types.Snapshot, error) {
	version, err := s.dataVersion(ctx)
	if err != nil {
		return nil, err
	}
	_, revision, err := s.read(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	s.advance(revision)

	out := make(chan types.Snapshot)
	go s.run(ctx, version, out)
	return out, nil
}

func (s *SQLiteStore) dataVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read data_version: %w", err)
	}
	return version, nil
}

func (s *SQLiteStore) run(ctx context.Context, version int64, out chan<- types.Snapshot) {
	defer close(out)

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		current, err := s.dataVersion(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("poll failed", zap.Error(err))
			continue
		}
		if current == version {
			continue
		}
		version = current

		value, revision, err := s.read(ctx)
		if err != nil {
			if !errors.Is(err, ErrNotFound) && ctx.Err() == nil {
				s.logger.Warn("failed to read changed state", zap.Error(err))
			}
			continue
		}
		if !s.advance(revision) {
			continue
		}

		snap, err := codec.DecodeSnapshot([]byte(value))
		if err != nil {
			s.logger.Debug("ignoring undecodable state row", zap.String("key", s.key), zap.Error(err))
			continue
		}

		select {
		case out <- snap:
		case <-ctx.Done():
			return
		}
	}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

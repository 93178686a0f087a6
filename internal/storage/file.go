package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/studiowebux/tally/internal/codec"
	"github.com/studiowebux/tally/internal/config"
	"github.com/studiowebux/tally/internal/types"
)

// FileStore keeps the snapshot in <dir>/<key>.json
type FileStore struct {
	dir    string
	path   string
	logger *zap.Logger

	// own identifies the file our last Save renamed into place. A file
	// replaced by any other writer has a different inode or mtime, even
	// when its bytes are identical.
	mu  sync.Mutex
	own os.FileInfo
}

// NewFileStore creates the directory if needed
func NewFileStore(dir, key string, logger *zap.Logger) (*FileStore, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, config.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileStore{
		dir:    dir,
		path:   filepath.Join(dir, key+".json"),
		logger: logger,
	}, nil
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (types.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Snapshot{}, ErrNotFound
		}
		return types.Snapshot{}, fmt.Errorf("failed to read state file: %w", err)
	}
	return codec.DecodeSnapshot(data)
}

// Save writes through a temp file and a rename so readers never observe a
// partial payload
func (s *FileStore) Save(ctx context.Context, snap types.Snapshot) error {
	data, err := codec.EncodeSnapshot(snap)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tally-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), config.FilePermissions); err != nil {
		return fmt.Errorf("failed to set state file permissions: %w", err)
	}
	info, err := os.Stat(tmp.Name())
	if err != nil {
		return fmt.Errorf("failed to stat temp file: %w", err)
	}

	// Recorded before the rename so the watcher never sees the new file
	// without knowing it is ours
	s.mu.Lock()
	prev := s.own
	s.own = info
	s.mu.Unlock()

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		s.mu.Lock()
		s.own = prev
		s.mu.Unlock()
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// sameVersion reports whether two stats describe the same write of the
// same file
func sameVersion(a, b os.FileInfo) bool {
	if a == nil || b == nil {
		return false
	}
	return os.SameFile(a, b) && a.ModTime().Equal(b.ModTime()) && a.Size() == b.Size()
}

// readVersion reads the state file and stats the same open handle, so the
// payload always matches the identity it is reported with
func (s *FileStore) readVersion() ([]byte, os.FileInfo, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return data, info, nil
}

// Watch uses fsnotify on the directory so atomic replaces are seen
func (s *FileStore) Watch(ctx context.Context) (<-chan types.Snapshot, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	out := make(chan types.Snapshot)
	go s.run(ctx, watcher, out)
	return out, nil
}

func (s *FileStore) run(ctx context.Context, watcher *fsnotify.Watcher, out chan<- types.Snapshot) {
	defer close(out)
	defer func() {
		if err := watcher.Close(); err != nil {
			s.logger.Warn("failed to close watcher", zap.Error(err))
		}
	}()

	// lastSeen dedupes the several events one external write can raise
	var lastSeen os.FileInfo
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			data, info, err := s.readVersion()
			if err != nil {
				s.logger.Debug("state file unreadable", zap.String("path", s.path), zap.Error(err))
				continue
			}

			s.mu.Lock()
			own := sameVersion(info, s.own)
			s.mu.Unlock()
			if own || sameVersion(info, lastSeen) {
				continue
			}
			lastSeen = info

			snap, err := codec.DecodeSnapshot(data)
			if err != nil {
				s.logger.Debug("ignoring undecodable state file", zap.String("path", s.path), zap.Error(err))
				continue
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (s *FileStore) Close() error {
	return nil
}

package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/tally/internal/keybinds"
	"github.com/studiowebux/tally/internal/storage"
	"github.com/studiowebux/tally/internal/types"
)

const cmdWait = 200 * time.Millisecond

// memStore is an in-memory storage.Store for tests
type memStore struct {
	mu      sync.Mutex
	snap    *types.Snapshot
	saves   int
	saveErr error
	watch   chan types.Snapshot
}

func newMemStore(snap *types.Snapshot) *memStore {
	return &memStore{snap: snap, watch: make(chan types.Snapshot)}
}

func (s *memStore) Load(ctx context.Context) (types.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return types.Snapshot{}, storage.ErrNotFound
	}
	return *s.snap, nil
}

func (s *memStore) Save(ctx context.Context, snap types.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snap = &snap
	s.saves++
	return nil
}

func (s *memStore) Watch(ctx context.Context) (<-chan types.Snapshot, error) {
	out := make(chan types.Snapshot)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snap := <-s.watch:
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (s *memStore) Close() error { return nil }

func (s *memStore) saved() (types.Snapshot, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return types.Snapshot{}, s.saves
	}
	return *s.snap, s.saves
}

// CreateTestModel creates a Model backed by an in-memory store with
// deterministic random numbers and a captured clipboard
func CreateTestModel(t *testing.T) (*Model, *memStore) {
	t.Helper()
	return createTestModelWith(t, nil)
}

func createTestModelWith(t *testing.T, snap *types.Snapshot) (*Model, *memStore) {
	t.Helper()

	store := newMemStore(snap)
	m, err := New(context.Background(), store, keybinds.NewDefaultRegistry(), nil)
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}
	m.randIntN = func(n int) int { return n - 1 }
	m.writeClipboard = func(string) error { return nil }
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	return m, store
}

// keyRunes builds a key message for printable input
func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the resulting command
func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// typeText sends each rune as its own key press
func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(keyRunes(string(r)))
	}
}

// collectMsgs runs cmd and flattens batches. Commands that take longer
// than cmdWait (timers) are dropped.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(cmdWait):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

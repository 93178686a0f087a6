package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/tally/internal/codec"
	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/keybinds"
	"github.com/studiowebux/tally/internal/storage"
)

// Options configures Run
type Options struct {
	Store     storage.Store
	Keybinds  *keybinds.Registry
	Logger    *zap.Logger
	AltScreen bool
}

// New creates a new TUI model and loads the stored snapshot
func New(ctx context.Context, store storage.Store, registry *keybinds.Registry, logger *zap.Logger) (*Model, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stepInput := textinput.New()
	stepInput.Prompt = "Step: "
	stepInput.CharLimit = StepInputCharLimit

	m := &Model{
		state:          counter.New(),
		store:          store,
		keybinds:       registry,
		logger:         logger,
		mode:           ModeNormal,
		stepInput:      stepInput,
		history:        NewHistoryState(),
		helpView:       viewport.New(80, 20),
		randIntN:       rand.IntN,
		writeClipboard: clipboard.WriteAll,
	}

	snap, err := store.Load(ctx)
	switch {
	case err == nil:
		m.dispatch(counter.ExternalStorageChanged{Snapshot: &snap})
	case errors.Is(err, storage.ErrNotFound):
		logger.Info("no stored state, starting fresh")
		m.syncState()
	case errors.Is(err, codec.ErrDecode):
		logger.Warn("stored state unreadable, starting fresh", zap.Error(err))
		m.syncState()
		m.setErrorMessage("Stored state is unreadable, starting fresh")
	default:
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	return m, nil
}

// sender is the part of tea.Program used by the watcher
type sender interface {
	Send(msg tea.Msg)
}

// Run starts the TUI and forwards snapshots written by other processes
// until the program exits
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts.Store, opts.Keybinds, opts.Logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, programOpts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return forwardSnapshots(gctx, opts.Store, p, m.logger)
	})

	return g.Wait()
}

// forwardSnapshots relays Store.Watch into the program. A store that
// cannot be watched is reported but does not stop the UI.
func forwardSnapshots(ctx context.Context, store storage.Store, p sender, logger *zap.Logger) error {
	ch, err := store.Watch(ctx)
	if err != nil {
		logger.Warn("storage watch unavailable", zap.Error(err))
		p.Send(errorMsg(fmt.Sprintf("Live sync disabled: %v", err)))
		return nil
	}

	for snap := range ch {
		logger.Debug("external change", zap.Int("value", snap.Value), zap.Int("step", snap.Step))
		p.Send(snapshotMsg{snapshot: snap})
	}
	return nil
}

package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/keybinds"
	"github.com/studiowebux/tally/internal/storage"
	"github.com/studiowebux/tally/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeStepInput
	ModeModal
	ModeFilePicker
	ModeHistoryFilter
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeStepInput:
		return "step"
	case ModeModal:
		return "modal"
	case ModeFilePicker:
		return "import"
	case ModeHistoryFilter:
		return "filter"
	case ModeHelp:
		return "help"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Model represents the TUI state
type Model struct {
	// Core state
	state    counter.State
	store    storage.Store
	keybinds *keybinds.Registry
	logger   *zap.Logger
	mode     Mode

	// Step editor
	stepInput textinput.Model

	// Modal state. modalKind tracks which dialog the inputs were built for.
	modalKind   counter.ModalKind
	modalInputs []textinput.Model
	modalFocus  int
	welcome     welcomeCache

	// CSV import
	filePicker  filepicker.Model
	pickerTypes []string

	// History list and filter
	history *HistoryState

	// Help viewer
	helpView viewport.Model

	// Side effect hooks, replaced in tests
	randIntN       func(n int) int
	writeClipboard func(text string) error

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string
}

// Custom message types

// eventMsg carries a counter event produced by a command or a timer
type eventMsg struct {
	event counter.Event
}

// snapshotMsg carries a snapshot written by another process
type snapshotMsg struct {
	snapshot types.Snapshot
}

type statusMsg string
type errorMsg string

type clearStatusMsg struct{}
type clearErrorMsg struct{}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	if m.errorMsg != "" {
		return tea.Tick(StatusMessageTimeout, func(time.Time) tea.Msg {
			return clearErrorMsg{}
		})
	}
	return nil
}

// State returns the current counter state
func (m *Model) State() counter.State {
	return m.state
}

// Mode returns the active input mode
func (m *Model) Mode() Mode {
	return m.mode
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case eventMsg:
		cmd = m.dispatch(msg.event)

	case snapshotMsg:
		snap := msg.snapshot
		cmd = tea.Batch(
			m.dispatch(counter.ExternalStorageChanged{Snapshot: &snap}),
			m.setStatusMessage("Updated from another session"),
		)

	case statusMsg:
		cmd = m.setStatusMessage(string(msg))

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""

	default:
		// The file picker reads directories asynchronously
		if m.mode == ModeFilePicker {
			m.filePicker, cmd = m.filePicker.Update(msg)
		}
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	case ModeModal:
		return m.renderModal()
	case ModeFilePicker:
		return m.renderFilePicker()
	default:
		return m.renderMain()
	}
}

// dispatch runs ev through the reducer, syncs the views with the new
// state and turns the effects into commands
func (m *Model) dispatch(ev counter.Event) tea.Cmd {
	next, effects := counter.Reduce(ev, m.state)
	m.state = next
	m.logger.Debug("event applied",
		zap.String("event", fmt.Sprintf("%T", ev)),
		zap.Int("value", next.Value),
		zap.Int("step", next.Step),
		zap.Int("effects", len(effects)),
	)

	m.syncState()
	return m.runEffects(effects)
}

// syncState keeps the history list and modal inputs in line with state
func (m *Model) syncState() {
	m.history.SetItems(m.state.History)

	if m.state.Modal == nil {
		if m.mode == ModeModal {
			m.mode = ModeNormal
		}
		m.modalInputs = nil
		return
	}

	if m.mode != ModeModal || m.modalKind != m.state.Modal.Kind() {
		m.openModalInputs(m.state.Modal)
	}
	m.mode = ModeModal
}

// Helper methods for setting messages with a timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = truncate(msg, StatusTruncateLength)
	return tea.Tick(StatusMessageTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.logger.Warn("ui error", zap.String("message", msg))
	m.errorMsg = truncate(msg, StatusTruncateLength)
	return tea.Tick(StatusMessageTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

// truncate limits s to n terminal cells, keeping whole runes
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "...")
}

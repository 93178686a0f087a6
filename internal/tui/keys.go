package tui

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/keybinds"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeStepInput:
		return m.handleStepInputKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModeFilePicker:
		return m.handleFilePickerKeys(msg)
	case ModeHistoryFilter:
		return m.handleHistoryFilterKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// keyPressEvent converts arrow keys to a KeyPress. Ctrl and Alt are the
// terminal's modifiers; Alt stands in for Meta.
func keyPressEvent(msg tea.KeyMsg) (counter.KeyPress, bool) {
	switch msg.Type {
	case tea.KeyCtrlUp:
		return counter.KeyPress{Key: counter.KeyArrowUp, Ctrl: true, Meta: msg.Alt}, true
	case tea.KeyCtrlDown:
		return counter.KeyPress{Key: counter.KeyArrowDown, Ctrl: true, Meta: msg.Alt}, true
	case tea.KeyUp:
		return counter.KeyPress{Key: counter.KeyArrowUp, Meta: msg.Alt}, true
	case tea.KeyDown:
		return counter.KeyPress{Key: counter.KeyArrowDown, Meta: msg.Alt}, true
	}
	return counter.KeyPress{}, false
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextNormal, msg.String())
	if !ok {
		if ev, isArrow := keyPressEvent(msg); isArrow {
			return m.dispatch(ev)
		}
		return nil
	}

	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionIncrement:
		return m.dispatch(counter.Increment{})
	case keybinds.ActionDecrement:
		return m.dispatch(counter.Decrement{})
	case keybinds.ActionReset:
		return m.dispatch(counter.Reset{})
	case keybinds.ActionResetHistory:
		return m.dispatch(counter.ResetHistory{})

	case keybinds.ActionEditStep:
		m.mode = ModeStepInput
		m.stepInput.SetValue(strconv.Itoa(m.state.Step))
		m.stepInput.CursorEnd()
		return m.stepInput.Focus()
	case keybinds.ActionResetStep:
		return m.dispatch(counter.ResetStep{})
	case keybinds.ActionRandomStep:
		return m.dispatch(counter.RandomStep{})

	case keybinds.ActionImportCSV:
		return m.dispatch(counter.CsvRequested{})
	case keybinds.ActionExportCSV:
		return m.dispatch(counter.ExportHistory{})

	case keybinds.ActionFilterHistory:
		m.mode = ModeHistoryFilter
		return m.history.FocusFilter()
	case keybinds.ActionScrollUp:
		m.history.PageUp()
	case keybinds.ActionScrollDown:
		m.history.PageDown()

	case keybinds.ActionOpenWelcome:
		return m.dispatch(counter.ShowModal{Kind: counter.ModalWelcome})
	case keybinds.ActionOpenFieldForm:
		return m.dispatch(counter.ShowModal{Kind: counter.ModalFieldForm})
	case keybinds.ActionOpenAnotherForm:
		return m.dispatch(counter.ShowModal{Kind: counter.ModalAnotherFieldForm})
	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.updateHelpView()
	}

	return nil
}

func (m *Model) handleStepInputKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextStepInput, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit
		case keybinds.ActionTextSubmit:
			text := m.stepInput.Value()
			m.closeStepInput()
			return m.dispatch(counter.ChangeStep{Text: text})
		case keybinds.ActionTextCancel:
			m.closeStepInput()
			return nil
		}
	}

	var cmd tea.Cmd
	m.stepInput, cmd = m.stepInput.Update(msg)
	return cmd
}

func (m *Model) closeStepInput() {
	m.stepInput.Blur()
	m.mode = ModeNormal
}

func (m *Model) handleFilePickerKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextFilePicker, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit
		case keybinds.ActionTextCancel:
			m.mode = ModeNormal
			return m.setStatusMessage("Import cancelled")
		}
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.mode = ModeNormal
		return tea.Batch(cmd, m.dispatch(counter.CsvLoaded{Path: path}))
	}
	if didSelect, path := m.filePicker.DidSelectDisabledFile(msg); didSelect {
		return tea.Batch(cmd, m.setErrorMessage(path+" is not a CSV file"))
	}
	return cmd
}

func (m *Model) handleHistoryFilterKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextHistoryFilter, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit
		case keybinds.ActionTextSubmit:
			m.history.BlurFilter()
			m.mode = ModeNormal
			return nil
		case keybinds.ActionTextCancel:
			m.history.ClearFilter()
			m.mode = ModeNormal
			return nil
		}
	}

	return m.history.UpdateFilter(msg)
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextHelp, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit
		case keybinds.ActionCloseModal:
			m.mode = ModeNormal
			return nil
		}
	}

	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return cmd
}

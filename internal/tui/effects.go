package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/studiowebux/tally/internal/codec"
	"github.com/studiowebux/tally/internal/counter"
)

// mimeExtensions maps the MIME types the picker can be asked for to the
// file extensions it shows
var mimeExtensions = map[string][]string{
	codec.CSVMIMEType: {".csv"},
}

// runEffects performs the effects returned by the reducer. Persist runs
// inline so writes reach the store in order. Everything else becomes a
// command whose result re-enters Update as a message.
func (m *Model) runEffects(effects []counter.Effect) tea.Cmd {
	var cmds []tea.Cmd

	for _, effect := range effects {
		switch e := effect.(type) {
		case counter.Persist:
			if err := m.store.Save(context.Background(), e.Snapshot); err != nil {
				m.logger.Error("failed to persist state", zap.Error(err))
				cmds = append(cmds, m.setErrorMessage(fmt.Sprintf("Failed to save: %v", err)))
			}

		case counter.Schedule:
			ev := e.Event
			cmds = append(cmds, tea.Tick(e.After, func(time.Time) tea.Msg {
				return eventMsg{event: ev}
			}))

		case counter.GenerateRandomStep:
			cmds = append(cmds, randomStepCmd(m.randIntN, e.Min, e.Max))

		case counter.OpenFilePicker:
			cmds = append(cmds, m.openFilePicker(e.MIMEType))

		case counter.ReadFile:
			cmds = append(cmds, readFileCmd(e.Path))

		case counter.CopyToClipboard:
			cmds = append(cmds, copyCmd(m.writeClipboard, e.Text))

		default:
			m.logger.Warn("unhandled effect", zap.String("effect", fmt.Sprintf("%T", effect)))
		}
	}

	return tea.Batch(cmds...)
}

func randomStepCmd(intN func(int) int, lo, hi int) tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: counter.RandomStepGenerated{N: lo + intN(hi-lo+1)}}
	}
}

// readFileCmd reads an import candidate. Text that is not a history CSV is
// reported here so the user learns why nothing changed.
func readFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to read %s: %v", filepath.Base(path), err))
		}
		text := string(data)
		if _, err := codec.DecodeCSVString(text); err != nil {
			return errorMsg(fmt.Sprintf("Import failed: %v", err))
		}
		return eventMsg{event: counter.CsvTextRead{Text: text}}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if err := write(text); err != nil {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		return statusMsg("History copied to clipboard as CSV")
	}
}

// openFilePicker switches to the picker rooted at the working directory
func (m *Model) openFilePicker(mimeType string) tea.Cmd {
	dir, err := os.Getwd()
	if err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to open file picker: %v", err))
	}

	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = mimeExtensions[mimeType]
	fp.AutoHeight = false
	fp.Height = max(FilePickerMinHeight, m.height-FilePickerHeightOffset)

	m.filePicker = fp
	m.pickerTypes = fp.AllowedTypes
	m.mode = ModeFilePicker
	return fp.Init()
}

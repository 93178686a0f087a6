package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/keybinds"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleValue = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan)

	styleModal = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorCyan).
			Padding(1, 2)
)

// updateLayout resizes the viewports after a window change
func (m *Model) updateLayout() {
	historyHeight := m.height - HeaderLines - FooterLines - HistoryTitleLines - 2
	m.history.SetSize(m.width-2, historyHeight)

	m.helpView.Width = max(20, m.width-HelpViewWidthOffset)
	m.helpView.Height = max(5, m.height-HelpViewHeightOffset)
	if m.mode == ModeHelp {
		m.updateHelpView()
	}
	if m.mode == ModeFilePicker {
		m.filePicker.Height = max(FilePickerMinHeight, m.height-FilePickerHeightOffset)
	}
}

// renderMain renders the counter, the history and the footer
func (m *Model) renderMain() string {
	value := styleValue.Render(fmt.Sprintf("%d", m.state.Value))
	step := fmt.Sprintf("step %d", m.state.Step)
	if m.mode == ModeStepInput {
		step = m.stepInput.View()
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, value, "  ", step)

	errLine := ""
	if m.state.HasError() {
		errLine = styleError.Render(m.state.ErrorMessage)
	}

	historyTitle := styleTitle.Render(fmt.Sprintf("History (%d)", len(m.history.Items())))
	if q := m.history.Query(); q != "" || m.mode == ModeHistoryFilter {
		if m.mode == ModeHistoryFilter {
			historyTitle += "  " + m.history.FilterView()
		} else {
			historyTitle += styleSubtle.Render(fmt.Sprintf("  /%s  %d shown", q, len(m.history.Visible())))
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styleTitle.Render("tally"),
		"",
		header,
		errLine,
		historyTitle,
		m.history.View(),
		m.renderStatusBar(),
	)
}

// renderStatusBar shows the latest message, or key hints when idle
func (m *Model) renderStatusBar() string {
	switch {
	case m.errorMsg != "":
		return styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		return styleSuccess.Render(m.statusMsg)
	}

	hint := func(action keybinds.Action) string {
		return m.keybinds.GetBindingString(keybinds.ContextNormal, action) + " " + action.Description()
	}
	var hints []string
	switch m.mode {
	case ModeStepInput:
		hints = []string{
			m.keybinds.GetBindingString(keybinds.ContextStepInput, keybinds.ActionTextSubmit) + " apply",
			m.keybinds.GetBindingString(keybinds.ContextStepInput, keybinds.ActionTextCancel) + " cancel",
		}
	case ModeHistoryFilter:
		hints = []string{
			m.keybinds.GetBindingString(keybinds.ContextHistoryFilter, keybinds.ActionTextSubmit) + " keep",
			m.keybinds.GetBindingString(keybinds.ContextHistoryFilter, keybinds.ActionTextCancel) + " clear",
		}
	default:
		hints = []string{
			hint(keybinds.ActionIncrement),
			hint(keybinds.ActionDecrement),
			hint(keybinds.ActionEditStep),
			hint(keybinds.ActionOpenHelp),
			hint(keybinds.ActionQuit),
		}
	}
	return styleSubtle.Render(strings.Join(hints, "  "))
}

// renderFilePicker shows the CSV picker full screen
func (m *Model) renderFilePicker() string {
	title := styleTitle.Render("Import history")
	dir := styleSubtle.Render(m.filePicker.CurrentDirectory)
	cancel := m.keybinds.GetBindingString(keybinds.ContextFilePicker, keybinds.ActionTextCancel)
	footer := styleSubtle.Render(fmt.Sprintf("enter select  %s cancel  (%s only)", cancel, strings.Join(m.pickerTypes, ", ")))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		dir,
		"",
		m.filePicker.View(),
		"",
		footer,
		m.renderStatusLine(),
	)
}

func (m *Model) renderStatusLine() string {
	if m.errorMsg != "" {
		return styleError.Render(m.errorMsg)
	}
	return ""
}

// updateHelpView lists the active bindings per context
func (m *Model) updateHelpView() {
	var sb strings.Builder
	for _, context := range keybinds.AllContexts {
		bindings := m.keybinds.ListBindings(context)
		var own []keybinds.Binding
		for _, b := range bindings {
			if b.Context == context {
				own = append(own, b)
			}
		}
		if len(own) == 0 {
			continue
		}

		sb.WriteString(styleTitle.Render(strings.ReplaceAll(string(context), "_", " ")))
		sb.WriteString("\n")
		for _, line := range helpLines(own) {
			sb.WriteString("  " + line + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(styleTitle.Render("arrows"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %-16s %s\n", "ctrl/alt+up", counter.LabelIncrement))
	sb.WriteString(fmt.Sprintf("  %-16s %s\n", "ctrl/alt+down", counter.LabelDecrement))

	m.helpView.SetContent(sb.String())
	m.helpView.GotoTop()
}

// helpLines groups keys by action
func helpLines(bindings []keybinds.Binding) []string {
	keys := make(map[keybinds.Action][]string)
	var actions []keybinds.Action
	for _, b := range bindings {
		if _, seen := keys[b.Action]; !seen {
			actions = append(actions, b.Action)
		}
		keys[b.Action] = append(keys[b.Action], b.Key)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })

	lines := make([]string, len(actions))
	for i, action := range actions {
		lines[i] = fmt.Sprintf("%-16s %s", strings.Join(keys[action], ", "), action.Description())
	}
	return lines
}

func (m *Model) renderHelp() string {
	closeKeys := m.keybinds.GetBindingString(keybinds.ContextHelp, keybinds.ActionCloseModal)
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styleTitle.Render("Keybindings"),
		"",
		m.helpView.View(),
		"",
		styleSubtle.Render(closeKeys+" close"),
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		styleModal.Render(content),
	)
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/keybinds"
)

const welcomeMarkdown = `# Welcome to tally

A counter that remembers every change.

- **+** / **k** adds the step, **-** / **j** subtracts it
- **ctrl+up** and **ctrl+down** work too
- **s** edits the step (0 to 100), **r** picks a random one
- **e** copies the history as CSV, **i** imports it back

Every running tally that shares the same storage stays in sync.
`

// welcomeCache holds the rendered welcome text for one width
type welcomeCache struct {
	width    int
	rendered string
}

// modalField describes one text input of a form dialog
type modalField struct {
	label    string
	value    string
	password bool
	message  func(text string) counter.ModalMsg
}

// modalFields lists the inputs of a dialog in tab order
func modalFields(modal counter.Modal) []modalField {
	switch md := modal.(type) {
	case counter.FieldForm:
		return []modalField{
			{label: "Login", value: md.Login, message: func(t string) counter.ModalMsg { return counter.LoginChanged{Text: t} }},
			{label: "Password", value: md.Password, password: true, message: func(t string) counter.ModalMsg { return counter.PasswordChanged{Text: t} }},
		}
	case counter.AnotherFieldForm:
		return []modalField{
			{label: "Username", value: md.Username, message: func(t string) counter.ModalMsg { return counter.UsernameChanged{Text: t} }},
		}
	}
	return nil
}

// openModalInputs builds text inputs for the dialog and focuses the first
func (m *Model) openModalInputs(modal counter.Modal) {
	m.modalKind = modal.Kind()
	m.modalFocus = 0
	m.modalInputs = nil

	for _, field := range modalFields(modal) {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = strings.ToLower(field.label)
		input.CharLimit = ModalInputCharLimit
		input.Width = ModalWidth - 16
		if field.password {
			input.EchoMode = textinput.EchoPassword
			input.EchoCharacter = '•'
		}
		input.SetValue(field.value)
		input.CursorEnd()
		m.modalInputs = append(m.modalInputs, input)
	}
	if len(m.modalInputs) > 0 {
		m.modalInputs[0].Focus()
	}
}

func (m *Model) handleModalKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.Match(keybinds.ContextModal, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit
		case keybinds.ActionCloseModal:
			return m.dispatch(counter.HideModal{})
		case keybinds.ActionNextField:
			m.moveModalFocus(1)
			return nil
		case keybinds.ActionPrevField:
			m.moveModalFocus(-1)
			return nil
		}
	}

	if len(m.modalInputs) == 0 {
		return nil
	}

	i := m.modalFocus
	before := m.modalInputs[i].Value()
	var cmd tea.Cmd
	m.modalInputs[i], cmd = m.modalInputs[i].Update(msg)

	after := m.modalInputs[i].Value()
	if after == before {
		return cmd
	}
	fields := modalFields(m.state.Modal)
	if i >= len(fields) {
		return cmd
	}
	return tea.Batch(cmd, m.dispatch(counter.ModalEvent{Msg: fields[i].message(after)}))
}

func (m *Model) moveModalFocus(delta int) {
	n := len(m.modalInputs)
	if n == 0 {
		return
	}
	m.modalInputs[m.modalFocus].Blur()
	m.modalFocus = ((m.modalFocus+delta)%n + n) % n
	m.modalInputs[m.modalFocus].Focus()
}

// renderModal draws the open dialog centered on screen
func (m *Model) renderModal() string {
	if m.state.Modal == nil {
		return m.renderMain()
	}

	width := min(ModalWidth, m.width-ModalWidthMargin)
	var body string
	switch m.state.Modal.Kind() {
	case counter.ModalWelcome:
		body = m.renderWelcome(width - 4)
	default:
		body = m.renderModalForm()
	}

	closeKeys := m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionCloseModal)
	footer := styleSubtle.Render(closeKeys + " close")
	if len(m.modalInputs) > 1 {
		footer = styleSubtle.Render(m.keybinds.GetBindingString(keybinds.ContextModal, keybinds.ActionNextField) + " next field  " + closeKeys + " close")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styleTitle.Render(modalTitle(m.state.Modal.Kind())),
		"",
		body,
		"",
		footer,
	)

	box := styleModal.Width(width).Render(content)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func modalTitle(kind counter.ModalKind) string {
	switch kind {
	case counter.ModalWelcome:
		return "Welcome"
	case counter.ModalFieldForm:
		return "Sign in"
	case counter.ModalAnotherFieldForm:
		return "Pick a username"
	}
	return kind.String()
}

func (m *Model) renderModalForm() string {
	fields := modalFields(m.state.Modal)
	var lines []string
	for i, input := range m.modalInputs {
		label := fields[i].label
		if i == m.modalFocus {
			label = styleSelected.Render(label)
		}
		lines = append(lines, label, input.View(), "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// renderWelcome renders the markdown once per width and falls back to the
// raw text if glamour fails
func (m *Model) renderWelcome(width int) string {
	if m.welcome.rendered != "" && m.welcome.width == width {
		return m.welcome.rendered
	}

	rendered := welcomeMarkdown
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err == nil {
		if out, err := r.Render(welcomeMarkdown); err == nil {
			rendered = strings.Trim(out, "\n")
		}
	}

	m.welcome = welcomeCache{width: width, rendered: rendered}
	return rendered
}

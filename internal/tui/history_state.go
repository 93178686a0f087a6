package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/tally/internal/types"
)

// HistoryState encapsulates the history list, its viewport and the fuzzy
// filter
type HistoryState struct {
	items   []types.HistoryItem
	visible []types.HistoryItem

	filter viewFilter
	view   viewport.Model
}

type viewFilter struct {
	input  textinput.Model
	active bool
}

// NewHistoryState creates a new history state
func NewHistoryState() *HistoryState {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "filter history"

	return &HistoryState{
		items:   []types.HistoryItem{},
		visible: []types.HistoryItem{},
		filter:  viewFilter{input: input},
		view:    viewport.New(80, HistoryMinHeight),
	}
}

// SetItems replaces the history, newest first
func (s *HistoryState) SetItems(items []types.HistoryItem) {
	s.items = items
	s.refresh()
}

// Items returns the full history
func (s *HistoryState) Items() []types.HistoryItem {
	return s.items
}

// Visible returns the items that match the filter, newest first
func (s *HistoryState) Visible() []types.HistoryItem {
	return s.visible
}

// Query returns the current filter text
func (s *HistoryState) Query() string {
	return s.filter.input.Value()
}

// SetQuery sets the filter text directly
func (s *HistoryState) SetQuery(q string) {
	s.filter.input.SetValue(q)
	s.refresh()
}

// FilterFocused reports whether the filter input has focus
func (s *HistoryState) FilterFocused() bool {
	return s.filter.active
}

// FocusFilter gives the filter input focus
func (s *HistoryState) FocusFilter() tea.Cmd {
	s.filter.active = true
	return s.filter.input.Focus()
}

// BlurFilter keeps the query but leaves the input
func (s *HistoryState) BlurFilter() {
	s.filter.active = false
	s.filter.input.Blur()
}

// ClearFilter drops the query and leaves the input
func (s *HistoryState) ClearFilter() {
	s.BlurFilter()
	s.SetQuery("")
}

// UpdateFilter forwards a key to the filter input and refilters
func (s *HistoryState) UpdateFilter(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.filter.input, cmd = s.filter.input.Update(msg)
	s.refresh()
	return cmd
}

// SetSize resizes the viewport
func (s *HistoryState) SetSize(width, height int) {
	s.view.Width = width
	s.view.Height = max(HistoryMinHeight, height)
	s.filter.input.Width = max(10, width-2)
	s.render()
}

// PageUp scrolls the list up one page
func (s *HistoryState) PageUp() {
	s.view.SetYOffset(s.view.YOffset - s.view.Height)
}

// PageDown scrolls the list down one page
func (s *HistoryState) PageDown() {
	s.view.SetYOffset(s.view.YOffset + s.view.Height)
}

// View renders the viewport
func (s *HistoryState) View() string {
	return s.view.View()
}

// FilterView renders the filter input
func (s *HistoryState) FilterView() string {
	return s.filter.input.View()
}

func (s *HistoryState) refresh() {
	s.visible = filterHistory(s.items, s.filter.input.Value())
	s.render()
}

func (s *HistoryState) render() {
	if len(s.visible) == 0 {
		if len(s.items) == 0 {
			s.view.SetContent(styleSubtle.Render("No changes yet"))
		} else {
			s.view.SetContent(styleSubtle.Render("No matches"))
		}
		return
	}

	lines := make([]string, len(s.visible))
	for i, item := range s.visible {
		lines[i] = renderHistoryItem(item)
	}
	s.view.SetContent(strings.Join(lines, "\n"))
}

// formatHistoryItem is the plain text used for display and matching
func formatHistoryItem(item types.HistoryItem) string {
	return fmt.Sprintf("%-9s %d -> %d (%+d)", item.Event, item.PreviousValue, item.Value, item.Delta())
}

func renderHistoryItem(item types.HistoryItem) string {
	line := formatHistoryItem(item)
	switch {
	case item.Delta() > 0:
		return styleSuccess.Render(line)
	case item.Delta() < 0:
		return styleError.Render(line)
	default:
		return styleWarning.Render(line)
	}
}

// filterHistory keeps the items whose text fuzzy-matches query. Order is
// preserved so the newest entry stays on top.
func filterHistory(items []types.HistoryItem, query string) []types.HistoryItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = formatHistoryItem(item)
	}

	matches := fuzzy.Find(query, texts)
	indexes := make([]int, len(matches))
	for i, match := range matches {
		indexes[i] = match.Index
	}
	sort.Ints(indexes)

	out := make([]types.HistoryItem, len(indexes))
	for i, idx := range indexes {
		out[i] = items[idx]
	}
	return out
}

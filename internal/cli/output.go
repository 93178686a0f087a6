package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/tally/internal/codec"
	"github.com/studiowebux/tally/internal/types"
)

// Output formats accepted by -o
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// Step keywords accepted by SetStep
const (
	StepRandom = "random"
	StepReset  = "reset"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// formatSnapshot renders the durable state
func formatSnapshot(snap types.Snapshot, format string) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil

	case FormatYAML:
		data, err := yaml.Marshal(snap)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\n"), nil

	case FormatText, "":
		return fmt.Sprintf("value %d (step %d, %d history entries)", snap.Value, snap.Step, len(snap.History)), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// formatHistory renders history entries, newest first
func formatHistory(items []types.HistoryItem, format string) (string, error) {
	if items == nil {
		items = []types.HistoryItem{}
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil

	case FormatYAML:
		data, err := yaml.Marshal(items)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\n"), nil

	case FormatCSV:
		return strings.TrimRight(codec.EncodeCSVString(items), "\n"), nil

	case FormatText, "":
		if len(items) == 0 {
			return "No history", nil
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "event", "previous", "value", "delta").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		for i, item := range items {
			t.Row(
				strconv.Itoa(i+1),
				item.Event,
				strconv.Itoa(item.PreviousValue),
				strconv.Itoa(item.Value),
				fmt.Sprintf("%+d", item.Delta()),
			)
		}
		return t.Render(), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json, yaml or csv)", format)
}

package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"

	"github.com/studiowebux/tally/internal/types"
)

// entry is the JSON shape queries run against. It adds the signed delta
// so expressions like [?delta < `0`] need no arithmetic.
type entry struct {
	Index         int    `json:"index"`
	Event         string `json:"event"`
	PreviousValue int    `json:"previous_value"`
	Value         int    `json:"value"`
	Delta         int    `json:"delta"`
}

// Query applies a JMESPath expression to the history and returns the
// result as indented JSON.
//
// The expression sees an array of objects with index, event,
// previous_value, value and delta fields, newest first. An empty
// expression returns the whole array.
func Query(history []types.HistoryItem, expression string) (string, error) {
	entries := make([]entry, len(history))
	for i, item := range history {
		entries[i] = entry{
			Index:         i,
			Event:         item.Event,
			PreviousValue: item.PreviousValue,
			Value:         item.Value,
			Delta:         item.Delta(),
		}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	if expression == "" {
		return indent(data)
	}
	return applyJMESPath(data, expression)
}

// applyJMESPath applies a JMESPath expression to a JSON document
func applyJMESPath(doc []byte, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal(doc, &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(output), nil
}

func indent(data []byte) (string, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}

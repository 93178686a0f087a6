package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/studiowebux/tally/internal/types"
)

// ErrDecode is returned (wrapped) for any malformed snapshot or CSV payload
var ErrDecode = errors.New("decode failed")

// snapshotWire mirrors types.Snapshot with pointer fields so missing keys
// can be told apart from zero values
type snapshotWire struct {
	Value   *int        `json:"value"`
	Step    *int        `json:"step"`
	History *[]itemWire `json:"history"`
}

type itemWire struct {
	Event         *string `json:"event"`
	PreviousValue *int    `json:"previous_value"`
	Value         *int    `json:"value"`
}

// EncodeSnapshot serializes a snapshot to the storage JSON format.
// History is written in its current order (newest first).
func EncodeSnapshot(s types.Snapshot) ([]byte, error) {
	history := s.History
	if history == nil {
		history = []types.HistoryItem{}
	}

	data, err := json.Marshal(types.Snapshot{
		Value:   s.Value,
		Step:    s.Step,
		History: history,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses the storage JSON format.
// Every field, including every history item field, must be present.
func DecodeSnapshot(data []byte) (types.Snapshot, error) {
	var wire snapshotWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return types.Snapshot{}, fmt.Errorf("%w: snapshot: %v", ErrDecode, err)
	}

	switch {
	case wire.Value == nil:
		return types.Snapshot{}, fmt.Errorf("%w: snapshot: missing field %q", ErrDecode, "value")
	case wire.Step == nil:
		return types.Snapshot{}, fmt.Errorf("%w: snapshot: missing field %q", ErrDecode, "step")
	case wire.History == nil:
		return types.Snapshot{}, fmt.Errorf("%w: snapshot: missing field %q", ErrDecode, "history")
	}

	history := make([]types.HistoryItem, 0, len(*wire.History))
	for i, item := range *wire.History {
		var missing string
		switch {
		case item.Event == nil:
			missing = "event"
		case item.PreviousValue == nil:
			missing = "previous_value"
		case item.Value == nil:
			missing = "value"
		}
		if missing != "" {
			return types.Snapshot{}, fmt.Errorf("%w: snapshot: history[%d]: missing field %q", ErrDecode, i, missing)
		}

		history = append(history, types.HistoryItem{
			Event:         *item.Event,
			PreviousValue: *item.PreviousValue,
			Value:         *item.Value,
		})
	}

	return types.Snapshot{
		Value:   *wire.Value,
		Step:    *wire.Step,
		History: history,
	}, nil
}

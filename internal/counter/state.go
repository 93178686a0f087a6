package counter

import (
	"time"

	"github.com/studiowebux/tally/internal/types"
)

const (
	// DefaultStep is the step of a fresh counter and the target of ResetStep
	DefaultStep = 1

	// MinStep and MaxStep bound the accepted step values
	MinStep = 0
	MaxStep = 100

	// RandomStepMin and RandomStepMax bound the values drawn by RandomStep
	RandomStepMin = 1
	RandomStepMax = 10

	// ErrorClearDelay is how long a step error stays visible
	ErrorClearDelay = 1500 * time.Millisecond
)

// History labels written by the reducer
const (
	LabelIncrement = "increment"
	LabelDecrement = "decrement"
	LabelReset     = "reset"
)

// State is the complete application state
type State struct {
	Value int
	Step  int

	// ErrorMessage is empty when there is no error to show
	ErrorMessage string

	// History is ordered newest first
	History []types.HistoryItem

	// HistoryCSVText holds the text of the last successful import or export
	HistoryCSVText string

	// Modal is nil when no dialog is open
	Modal Modal

	// timers numbers Schedule effects; it only ever increases
	timers uint64
}

// New returns the initial state
func New() State {
	return State{
		Value:   0,
		Step:    DefaultStep,
		History: []types.HistoryItem{},
	}
}

// Snapshot returns the durable subset of the state
func (s State) Snapshot() types.Snapshot {
	history := make([]types.HistoryItem, len(s.History))
	copy(history, s.History)
	return types.Snapshot{
		Value:   s.Value,
		Step:    s.Step,
		History: history,
	}
}

// HasError reports whether a step error is being shown
func (s State) HasError() bool {
	return s.ErrorMessage != ""
}

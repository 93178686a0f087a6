package counter

import "github.com/studiowebux/tally/internal/types"

// AppendIfChanged returns the history that results from moving from before
// to after. When the value did not change the history is returned as is;
// otherwise a new slice is built with the new item in front. The backing
// array of before.History is never written to.
func AppendIfChanged(event string, before, after State) []types.HistoryItem {
	if before.Value == after.Value {
		return before.History
	}

	history := make([]types.HistoryItem, 0, len(before.History)+1)
	history = append(history, types.HistoryItem{
		Event:         event,
		PreviousValue: before.Value,
		Value:         after.Value,
	})
	return append(history, before.History...)
}

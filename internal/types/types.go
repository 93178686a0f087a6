package types

// HistoryItem records one state transition of the counter.
// Items are never mutated once created.
type HistoryItem struct {
	Event         string `json:"event" yaml:"event"`
	PreviousValue int    `json:"previous_value" yaml:"previous_value"`
	Value         int    `json:"value" yaml:"value"`
}

// Delta returns the signed change the item records
func (h HistoryItem) Delta() int {
	return h.Value - h.PreviousValue
}

// Snapshot is the durable subset of the counter state
type Snapshot struct {
	Value   int           `json:"value" yaml:"value"`
	Step    int           `json:"step" yaml:"step"`
	History []HistoryItem `json:"history" yaml:"history"`
}

// Equal reports whether two snapshots hold the same value, step and history
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Value != other.Value || s.Step != other.Step || len(s.History) != len(other.History) {
		return false
	}
	for i := range s.History {
		if s.History[i] != other.History[i] {
			return false
		}
	}
	return true
}

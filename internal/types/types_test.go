package types

import "testing"

func TestHistoryItem_Delta(t *testing.T) {
	tests := []struct {
		name string
		item HistoryItem
		want int
	}{
		{"increment", HistoryItem{Event: "increment", PreviousValue: 2, Value: 7}, 5},
		{"decrement", HistoryItem{Event: "decrement", PreviousValue: 2, Value: -3}, -5},
		{"reset", HistoryItem{Event: "reset", PreviousValue: 9, Value: 0}, -9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.Delta(); got != tt.want {
				t.Errorf("Delta() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSnapshot_Equal(t *testing.T) {
	base := Snapshot{
		Value: 3,
		Step:  3,
		History: []HistoryItem{
			{Event: "increment", PreviousValue: 0, Value: 3},
		},
	}

	same := Snapshot{Value: 3, Step: 3, History: []HistoryItem{{Event: "increment", PreviousValue: 0, Value: 3}}}
	if !base.Equal(same) {
		t.Error("Expected equal snapshots")
	}

	differentStep := same
	differentStep.Step = 4
	if base.Equal(differentStep) {
		t.Error("Expected snapshots with different steps to differ")
	}

	differentHistory := Snapshot{Value: 3, Step: 3, History: []HistoryItem{{Event: "manual", PreviousValue: 0, Value: 3}}}
	if base.Equal(differentHistory) {
		t.Error("Expected snapshots with different history to differ")
	}

	if !(Snapshot{}).Equal(Snapshot{History: []HistoryItem{}}) {
		t.Error("Expected nil and empty history to compare equal")
	}
}

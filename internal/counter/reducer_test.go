package counter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/studiowebux/tally/internal/types"
)

var stateOpts = cmp.AllowUnexported(State{})

// run applies events in order and returns the final state and every effect
func run(s State, events ...Event) (State, []Effect) {
	var all []Effect
	for _, ev := range events {
		var effects []Effect
		s, effects = Reduce(ev, s)
		all = append(all, effects...)
	}
	return s, all
}

func persisted(effects []Effect) (types.Snapshot, bool) {
	for i := len(effects) - 1; i >= 0; i-- {
		if p, ok := effects[i].(Persist); ok {
			return p.Snapshot, true
		}
	}
	return types.Snapshot{}, false
}

func TestNew(t *testing.T) {
	s := New()

	if s.Value != 0 {
		t.Errorf("Expected value 0, got %d", s.Value)
	}
	if s.Step != DefaultStep {
		t.Errorf("Expected step %d, got %d", DefaultStep, s.Step)
	}
	if s.HasError() {
		t.Errorf("Expected no error, got %q", s.ErrorMessage)
	}
	if s.Modal != nil {
		t.Errorf("Expected no modal, got %v", s.Modal)
	}
	if len(s.History) != 0 {
		t.Errorf("Expected empty history, got %d items", len(s.History))
	}
}

func TestReduce_IncrementDecrementSum(t *testing.T) {
	s := New()
	events := []Event{
		ChangeStep{Text: "3"},
		Increment{},
		Increment{},
		ChangeStep{Text: "5"},
		Decrement{},
		ChangeStep{Text: "0"},
		Increment{},
		ChangeStep{Text: "10"},
		Decrement{},
	}

	s, effects := run(s, events...)

	if want := 3 + 3 - 5 + 0 - 10; s.Value != want {
		t.Errorf("Expected value %d, got %d", want, s.Value)
	}

	// The zero-step increment must not produce an item
	if len(s.History) != 4 {
		t.Fatalf("Expected 4 history items, got %d: %+v", len(s.History), s.History)
	}

	want := []types.HistoryItem{
		{Event: LabelDecrement, PreviousValue: 1, Value: -9},
		{Event: LabelDecrement, PreviousValue: 6, Value: 1},
		{Event: LabelIncrement, PreviousValue: 3, Value: 6},
		{Event: LabelIncrement, PreviousValue: 0, Value: 3},
	}
	if diff := cmp.Diff(want, s.History); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}

	snap, ok := persisted(effects)
	if !ok {
		t.Fatal("Expected a Persist effect")
	}
	if diff := cmp.Diff(s.Snapshot(), snap); diff != "" {
		t.Errorf("Persisted snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_HistoryItemOnlyWhenChanged(t *testing.T) {
	tests := []struct {
		name      string
		start     State
		event     Event
		wantItems int
	}{
		{"increment with step", State{Step: 2}, Increment{}, 1},
		{"increment with zero step", State{Step: 0}, Increment{}, 0},
		{"decrement with zero step", State{Step: 0, Value: 4}, Decrement{}, 0},
		{"reset at zero", State{Step: 1, Value: 0}, Reset{}, 0},
		{"reset from value", State{Step: 1, Value: 7}, Reset{}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effects := Reduce(tt.event, tt.start)
			if len(next.History) != tt.wantItems {
				t.Errorf("Expected %d history items, got %d", tt.wantItems, len(next.History))
			}
			if _, ok := persisted(effects); !ok {
				t.Error("Expected a Persist effect")
			}
		})
	}
}

func TestReduce_ResetIsIdempotent(t *testing.T) {
	s, _ := run(New(), Increment{}, Reset{})
	again, _ := Reduce(Reset{}, s)

	if diff := cmp.Diff(s, again, stateOpts); diff != "" {
		t.Errorf("Second reset changed state (-first +second):\n%s", diff)
	}
	if len(again.History) != 2 {
		t.Errorf("Expected 2 history items, got %d", len(again.History))
	}
	if again.History[0].Event != LabelReset {
		t.Errorf("Expected newest item %q, got %q", LabelReset, again.History[0].Event)
	}
}

func TestReduce_DoesNotMutateInputHistory(t *testing.T) {
	backing := make([]types.HistoryItem, 1, 8)
	backing[0] = types.HistoryItem{Event: "manual", PreviousValue: 0, Value: 1}
	s := State{Value: 1, Step: 1, History: backing}

	next, _ := Reduce(Increment{}, s)
	next2, _ := Reduce(Increment{}, s)

	if len(s.History) != 1 || s.History[0].Event != "manual" {
		t.Errorf("Input history modified: %+v", s.History)
	}
	if next.History[1] != backing[0] || next2.History[1] != backing[0] {
		t.Error("Expected older items to be carried over")
	}
	next.History[0].Event = "changed"
	if next2.History[0].Event == "changed" {
		t.Error("Expected independent history slices")
	}
}

func TestReduce_ChangeStep(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantStep    int
		wantError   bool
		wantPersist bool
		wantTimer   bool
	}{
		{"empty sets zero", "", 0, false, true, false},
		{"number", "42", 42, false, true, false},
		{"upper bound", "100", 100, false, true, false},
		{"whitespace trimmed", " 7 ", 7, false, true, false},
		{"not a number", "abc", 5, true, false, true},
		{"decimal", "1.5", 5, true, false, true},
		{"above max clamps", "150", 100, true, true, true},
		{"huge clamps", "99999999999999999999999", 100, true, true, true},
		{"negative clamps", "-3", 0, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := State{Step: 5, ErrorMessage: "old"}
			next, effects := Reduce(ChangeStep{Text: tt.text}, start)

			if next.Step != tt.wantStep {
				t.Errorf("Expected step %d, got %d", tt.wantStep, next.Step)
			}
			if next.HasError() != tt.wantError {
				t.Errorf("Expected error=%v, got %q", tt.wantError, next.ErrorMessage)
			}
			if tt.wantError && next.ErrorMessage == "old" {
				t.Error("Expected a new error message")
			}

			_, gotPersist := persisted(effects)
			if gotPersist != tt.wantPersist {
				t.Errorf("Expected persist=%v, got %v", tt.wantPersist, gotPersist)
			}

			var timer *Schedule
			for _, eff := range effects {
				if sch, ok := eff.(Schedule); ok {
					timer = &sch
				}
			}
			if (timer != nil) != tt.wantTimer {
				t.Fatalf("Expected timer=%v, got %v", tt.wantTimer, timer != nil)
			}
			if timer != nil {
				if timer.After != ErrorClearDelay {
					t.Errorf("Expected delay %v, got %v", ErrorClearDelay, timer.After)
				}
				if _, ok := timer.Event.(ClearError); !ok {
					t.Errorf("Expected ClearError event, got %T", timer.Event)
				}
			}
		})
	}
}

func TestReduce_ClearErrorIsNotCancelled(t *testing.T) {
	s, effects := Reduce(ChangeStep{Text: "abc"}, New())
	first := effects[0].(Schedule)

	s, effects = Reduce(ChangeStep{Text: "xyz"}, s)
	second := effects[0].(Schedule)

	if first.ID == second.ID {
		t.Errorf("Expected distinct timer ids, both %d", first.ID)
	}

	// The stale timer fires first and still clears the newer error
	s, _ = Reduce(first.Event, s)
	if s.HasError() {
		t.Errorf("Expected stale ClearError to clear error, got %q", s.ErrorMessage)
	}

	s, _ = Reduce(second.Event, s)
	if s.HasError() {
		t.Error("Expected error to stay cleared")
	}
}

func TestReduce_ResetStepAndHistory(t *testing.T) {
	s, _ := run(New(), ChangeStep{Text: "9"}, Increment{}, Increment{})

	s, effects := Reduce(ResetStep{}, s)
	if s.Step != DefaultStep {
		t.Errorf("Expected step %d, got %d", DefaultStep, s.Step)
	}
	if _, ok := persisted(effects); !ok {
		t.Error("Expected ResetStep to persist")
	}

	s, effects = Reduce(ResetHistory{}, s)
	if len(s.History) != 0 {
		t.Errorf("Expected empty history, got %d items", len(s.History))
	}
	if s.Value != 18 {
		t.Errorf("Expected value to survive history reset, got %d", s.Value)
	}
	snap, ok := persisted(effects)
	if !ok || len(snap.History) != 0 {
		t.Errorf("Expected persisted empty history, got %+v", snap)
	}
}

func TestReduce_RandomStep(t *testing.T) {
	s := New()
	next, effects := Reduce(RandomStep{}, s)

	if diff := cmp.Diff(s, next, stateOpts); diff != "" {
		t.Errorf("RandomStep changed state:\n%s", diff)
	}
	want := []Effect{GenerateRandomStep{Min: 1, Max: 10}}
	if diff := cmp.Diff(want, effects); diff != "" {
		t.Errorf("Effects mismatch (-want +got):\n%s", diff)
	}

	next, effects = Reduce(RandomStepGenerated{N: 7}, next)
	if next.Step != 7 {
		t.Errorf("Expected step 7, got %d", next.Step)
	}
	if _, ok := persisted(effects); !ok {
		t.Error("Expected generated step to persist")
	}
}

func TestReduce_KeyPress(t *testing.T) {
	tests := []struct {
		name      string
		key       KeyPress
		wantValue int
	}{
		{"ctrl up increments", KeyPress{Key: KeyArrowUp, Ctrl: true}, 1},
		{"meta up increments", KeyPress{Key: KeyArrowUp, Meta: true}, 1},
		{"ctrl down decrements", KeyPress{Key: KeyArrowDown, Ctrl: true}, -1},
		{"meta down decrements", KeyPress{Key: KeyArrowDown, Meta: true}, -1},
		{"plain up does nothing", KeyPress{Key: KeyArrowUp}, 0},
		{"plain down does nothing", KeyPress{Key: KeyArrowDown}, 0},
		{"ctrl other key does nothing", KeyPress{Key: "a", Ctrl: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, effects := Reduce(tt.key, New())
			if next.Value != tt.wantValue {
				t.Errorf("Expected value %d, got %d", tt.wantValue, next.Value)
			}

			wantItems := 0
			if tt.wantValue != 0 {
				wantItems = 1
			}
			if len(next.History) != wantItems {
				t.Errorf("Expected %d history items, got %d", wantItems, len(next.History))
			}
			if wantItems == 0 && len(effects) != 0 {
				t.Errorf("Expected no effects, got %v", effects)
			}
		})
	}
}

func TestReduce_CsvFlow(t *testing.T) {
	s := New()

	_, effects := Reduce(CsvRequested{}, s)
	if diff := cmp.Diff([]Effect{OpenFilePicker{MIMEType: "text/csv"}}, effects); diff != "" {
		t.Errorf("CsvRequested effects (-want +got):\n%s", diff)
	}

	_, effects = Reduce(CsvLoaded{Path: "/tmp/h.csv"}, s)
	if diff := cmp.Diff([]Effect{ReadFile{Path: "/tmp/h.csv"}}, effects); diff != "" {
		t.Errorf("CsvLoaded effects (-want +got):\n%s", diff)
	}

	text := "event,previous_value,value\nmanual,0,5\n"
	next, effects := Reduce(CsvTextRead{Text: text}, s)
	if next.Value != 5 {
		t.Errorf("Expected value 5, got %d", next.Value)
	}
	want := []types.HistoryItem{{Event: "manual", PreviousValue: 0, Value: 5}}
	if diff := cmp.Diff(want, next.History); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
	if next.HistoryCSVText != text {
		t.Errorf("Expected csv text to be kept, got %q", next.HistoryCSVText)
	}
	if _, ok := persisted(effects); !ok {
		t.Error("Expected import to persist")
	}
}

func TestReduce_CsvUsesFirstRowValue(t *testing.T) {
	text := "event,previous_value,value\nincrement,10,20\nincrement,0,10\n"
	next, _ := Reduce(CsvTextRead{Text: text}, New())

	if next.Value != 20 {
		t.Errorf("Expected first row value 20, got %d", next.Value)
	}
	if len(next.History) != 2 || next.History[1].Value != 10 {
		t.Errorf("Expected rows in file order, got %+v", next.History)
	}
}

func TestReduce_CsvFailureIsNoOp(t *testing.T) {
	s, _ := run(New(), Increment{}, Increment{})
	next, effects := Reduce(CsvTextRead{Text: "event,value\nmanual,x\n"}, s)

	if diff := cmp.Diff(s, next, stateOpts); diff != "" {
		t.Errorf("Failed import changed state:\n%s", diff)
	}
	if len(effects) != 0 {
		t.Errorf("Expected no effects, got %v", effects)
	}
}

func TestReduce_CsvHeaderOnlyKeepsValue(t *testing.T) {
	s, _ := run(New(), Increment{})
	next, _ := Reduce(CsvTextRead{Text: "event,previous_value,value\n"}, s)

	if next.Value != 1 {
		t.Errorf("Expected value 1, got %d", next.Value)
	}
	if len(next.History) != 0 {
		t.Errorf("Expected empty history, got %d", len(next.History))
	}
}

func TestReduce_ExternalStorageChanged(t *testing.T) {
	s, _ := run(New(), Increment{}, ChangeStep{Text: "abc"})

	next, effects := Reduce(ExternalStorageChanged{}, s)
	if diff := cmp.Diff(s, next, stateOpts); diff != "" {
		t.Errorf("Nil snapshot changed state:\n%s", diff)
	}

	snap := &types.Snapshot{
		Value:   40,
		Step:    4,
		History: []types.HistoryItem{{Event: "increment", PreviousValue: 36, Value: 40}},
	}
	next, effects = Reduce(ExternalStorageChanged{Snapshot: snap}, s)

	if next.Value != 40 || next.Step != 4 {
		t.Errorf("Expected value 40 step 4, got value %d step %d", next.Value, next.Step)
	}
	if diff := cmp.Diff(snap.History, next.History); diff != "" {
		t.Errorf("History mismatch (-want +got):\n%s", diff)
	}
	if next.ErrorMessage != s.ErrorMessage {
		t.Error("Expected error message to be left alone")
	}
	if len(effects) != 0 {
		t.Errorf("Expected no effects, got %v", effects)
	}

	snap.History[0].Event = "mutated"
	if next.History[0].Event == "mutated" {
		t.Error("Expected state to own its history copy")
	}
}

func TestReduce_Modals(t *testing.T) {
	s := New()

	// Modal events are ignored while closed
	next, _ := Reduce(ModalEvent{Msg: LoginChanged{Text: "bob"}}, s)
	if next.Modal != nil {
		t.Fatalf("Expected no modal, got %v", next.Modal)
	}

	s, _ = Reduce(ShowModal{Kind: ModalFieldForm}, s)
	s, _ = run(s,
		ModalEvent{Msg: LoginChanged{Text: "bob"}},
		ModalEvent{Msg: PasswordChanged{Text: "hunter2"}},
		ModalEvent{Msg: UsernameChanged{Text: "ignored"}},
	)
	if diff := cmp.Diff(Modal(FieldForm{Login: "bob", Password: "hunter2"}), s.Modal); diff != "" {
		t.Errorf("Modal mismatch (-want +got):\n%s", diff)
	}

	s, _ = Reduce(ShowModal{Kind: ModalAnotherFieldForm}, s)
	s, _ = run(s, ModalEvent{Msg: LoginChanged{Text: "x"}}, ModalEvent{Msg: UsernameChanged{Text: "alice"}})
	if diff := cmp.Diff(Modal(AnotherFieldForm{Username: "alice"}), s.Modal); diff != "" {
		t.Errorf("Modal mismatch (-want +got):\n%s", diff)
	}

	s, _ = Reduce(ShowModal{Kind: ModalWelcome}, s)
	s, _ = Reduce(ModalEvent{Msg: UsernameChanged{Text: "x"}}, s)
	if _, ok := s.Modal.(Welcome); !ok {
		t.Errorf("Expected Welcome, got %T", s.Modal)
	}

	s, effects := Reduce(HideModal{}, s)
	if s.Modal != nil {
		t.Errorf("Expected modal closed, got %v", s.Modal)
	}
	if len(effects) != 0 {
		t.Errorf("Expected no effects, got %v", effects)
	}
}

func TestReduce_ExportHistory(t *testing.T) {
	s, _ := run(New(), Increment{}, Increment{})
	next, effects := Reduce(ExportHistory{}, s)

	want := "event,previous_value,value\nincrement,1,2\nincrement,0,1\n"
	if next.HistoryCSVText != want {
		t.Errorf("Expected csv %q, got %q", want, next.HistoryCSVText)
	}
	if diff := cmp.Diff([]Effect{CopyToClipboard{Text: want}}, effects); diff != "" {
		t.Errorf("Effects mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStep_Errors(t *testing.T) {
	_, err := ParseStep("abc")
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("Expected *StepError, got %T", err)
	}
	if !errors.Is(err, ErrParse) {
		t.Errorf("Expected ErrParse, got %v", err)
	}

	step, err := ParseStep("101")
	if !errors.Is(err, ErrRange) {
		t.Errorf("Expected ErrRange, got %v", err)
	}
	if step != MaxStep {
		t.Errorf("Expected clamped step %d, got %d", MaxStep, step)
	}
}

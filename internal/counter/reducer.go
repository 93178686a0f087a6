package counter

import (
	"errors"
	"strconv"

	"github.com/studiowebux/tally/internal/codec"
	"github.com/studiowebux/tally/internal/types"
)

// Reduce applies ev to s and returns the next state together with the
// effects the driver must perform. It does not modify s.
func Reduce(ev Event, s State) (State, []Effect) {
	switch ev := ev.(type) {
	case Increment:
		return applyValue(s, LabelIncrement, s.Value+s.Step)

	case Decrement:
		return applyValue(s, LabelDecrement, s.Value-s.Step)

	case Reset:
		return applyValue(s, LabelReset, 0)

	case ResetHistory:
		s.History = []types.HistoryItem{}
		return s, persist(s)

	case ChangeStep:
		return changeStep(s, ev.Text)

	case RandomStepGenerated:
		return changeStep(s, strconv.Itoa(ev.N))

	case ResetStep:
		s.Step = DefaultStep
		return s, persist(s)

	case RandomStep:
		return s, []Effect{GenerateRandomStep{Min: RandomStepMin, Max: RandomStepMax}}

	case KeyPress:
		if !ev.Ctrl && !ev.Meta {
			return s, nil
		}
		switch ev.Key {
		case KeyArrowUp:
			return Reduce(Increment{}, s)
		case KeyArrowDown:
			return Reduce(Decrement{}, s)
		}
		return s, nil

	case CsvRequested:
		return s, []Effect{OpenFilePicker{MIMEType: codec.CSVMIMEType}}

	case CsvLoaded:
		return s, []Effect{ReadFile{Path: ev.Path}}

	case CsvTextRead:
		items, err := codec.DecodeCSVString(ev.Text)
		if err != nil {
			return s, nil
		}
		s.History = items
		s.HistoryCSVText = ev.Text
		if len(items) > 0 {
			s.Value = items[0].Value
		}
		return s, persist(s)

	case ExternalStorageChanged:
		if ev.Snapshot == nil {
			return s, nil
		}
		snap := ev.Snapshot
		s.Value = snap.Value
		s.Step = snap.Step
		s.History = make([]types.HistoryItem, len(snap.History))
		copy(s.History, snap.History)
		return s, nil

	case ShowModal:
		s.Modal = NewModal(ev.Kind)
		return s, nil

	case HideModal:
		s.Modal = nil
		return s, nil

	case ModalEvent:
		if s.Modal == nil {
			return s, nil
		}
		s.Modal = UpdateModal(ev.Msg, s.Modal)
		return s, nil

	case ClearError:
		s.ErrorMessage = ""
		return s, nil

	case ExportHistory:
		s.HistoryCSVText = codec.EncodeCSVString(s.History)
		return s, []Effect{CopyToClipboard{Text: s.HistoryCSVText}}
	}

	return s, nil
}

func applyValue(s State, label string, value int) (State, []Effect) {
	next := s
	next.Value = value
	next.History = AppendIfChanged(label, s, next)
	return next, persist(next)
}

func changeStep(s State, text string) (State, []Effect) {
	step, err := ParseStep(text)
	if err == nil {
		s.Step = step
		s.ErrorMessage = ""
		return s, persist(s)
	}

	s.ErrorMessage = err.Error()
	var clearErr Effect
	s, clearErr = scheduleClear(s)

	if errors.Is(err, ErrRange) {
		s.Step = step
		return s, append(persist(s), clearErr)
	}
	return s, []Effect{clearErr}
}

func scheduleClear(s State) (State, Effect) {
	s.timers++
	return s, Schedule{
		ID:    s.timers,
		After: ErrorClearDelay,
		Event: ClearError{ID: s.timers},
	}
}

func persist(s State) []Effect {
	return []Effect{Persist{Snapshot: s.Snapshot()}}
}

package counter

import "github.com/studiowebux/tally/internal/types"

// Event is an input to Reduce. The set of implementations is closed.
type Event interface {
	isEvent()
}

// Key names carried by KeyPress
const (
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
)

type (
	Increment    struct{}
	Decrement    struct{}
	Reset        struct{}
	ResetHistory struct{}
	ResetStep    struct{}
	RandomStep   struct{}
	CsvRequested struct{}
	HideModal    struct{}

	// ExportHistory renders the history as CSV and asks for it to be copied
	ExportHistory struct{}

	// ChangeStep carries raw step input
	ChangeStep struct{ Text string }

	// RandomStepGenerated carries the value drawn for a RandomStep
	RandomStepGenerated struct{ N int }

	// KeyPress is a raw key with its modifier state. Meta covers Cmd on
	// macOS and Alt in terminals.
	KeyPress struct {
		Key  string
		Ctrl bool
		Meta bool
	}

	// CsvLoaded names a file picked for import
	CsvLoaded struct{ Path string }

	// CsvTextRead carries the contents of a picked file
	CsvTextRead struct{ Text string }

	// ExternalStorageChanged carries a snapshot written by someone else.
	// A nil snapshot is ignored.
	ExternalStorageChanged struct{ Snapshot *types.Snapshot }

	ShowModal  struct{ Kind ModalKind }
	ModalEvent struct{ Msg ModalMsg }

	// ClearError is delivered by a Schedule effect. ID identifies the
	// timer that produced it.
	ClearError struct{ ID uint64 }
)

func (Increment) isEvent()              {}
func (Decrement) isEvent()              {}
func (Reset) isEvent()                  {}
func (ResetHistory) isEvent()           {}
func (ResetStep) isEvent()              {}
func (RandomStep) isEvent()             {}
func (CsvRequested) isEvent()           {}
func (HideModal) isEvent()              {}
func (ExportHistory) isEvent()          {}
func (ChangeStep) isEvent()             {}
func (RandomStepGenerated) isEvent()    {}
func (KeyPress) isEvent()               {}
func (CsvLoaded) isEvent()              {}
func (CsvTextRead) isEvent()            {}
func (ExternalStorageChanged) isEvent() {}
func (ShowModal) isEvent()              {}
func (ModalEvent) isEvent()             {}
func (ClearError) isEvent()             {}

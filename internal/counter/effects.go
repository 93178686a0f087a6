package counter

import (
	"time"

	"github.com/studiowebux/tally/internal/types"
)

// Effect is a side action requested by Reduce and carried out by a driver.
// Results come back as ordinary events.
type Effect interface {
	isEffect()
}

type (
	// Persist writes the snapshot to durable storage
	Persist struct{ Snapshot types.Snapshot }

	// Schedule delivers Event after the delay. Scheduled events are never
	// cancelled.
	Schedule struct {
		ID    uint64
		After time.Duration
		Event Event
	}

	// GenerateRandomStep draws a uniform integer in [Min, Max] and
	// delivers it as RandomStepGenerated
	GenerateRandomStep struct{ Min, Max int }

	// OpenFilePicker lets the user pick a file of the given MIME type and
	// delivers the choice as CsvLoaded
	OpenFilePicker struct{ MIMEType string }

	// ReadFile reads the file and delivers its text as CsvTextRead
	ReadFile struct{ Path string }

	// CopyToClipboard hands text to the system clipboard
	CopyToClipboard struct{ Text string }
)

func (Persist) isEffect()            {}
func (Schedule) isEffect()           {}
func (GenerateRandomStep) isEffect() {}
func (OpenFilePicker) isEffect()     {}
func (ReadFile) isEffect()           {}
func (CopyToClipboard) isEffect()    {}

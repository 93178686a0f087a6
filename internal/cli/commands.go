package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/filter"
)

// Show prints the counter in the given format
func (r *Runner) Show(format string) error {
	text, err := formatSnapshot(r.state.Snapshot(), format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, text)
	return err
}

// Increment adds the step times times
func (r *Runner) Increment(ctx context.Context, times int) error {
	return r.repeat(ctx, counter.Increment{}, times)
}

// Decrement subtracts the step times times
func (r *Runner) Decrement(ctx context.Context, times int) error {
	return r.repeat(ctx, counter.Decrement{}, times)
}

func (r *Runner) repeat(ctx context.Context, ev counter.Event, times int) error {
	if times < 1 {
		return fmt.Errorf("count must be at least 1, got %d", times)
	}
	events := make([]counter.Event, times)
	for i := range events {
		events[i] = ev
	}
	if err := r.Apply(ctx, events...); err != nil {
		return err
	}
	return r.Show(FormatText)
}

// Reset sets the value to zero
func (r *Runner) Reset(ctx context.Context) error {
	if err := r.Apply(ctx, counter.Reset{}); err != nil {
		return err
	}
	return r.Show(FormatText)
}

// SetStep accepts a number, "random" or "reset"
func (r *Runner) SetStep(ctx context.Context, arg string) error {
	var ev counter.Event
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case StepRandom:
		ev = counter.RandomStep{}
	case StepReset:
		ev = counter.ResetStep{}
	default:
		ev = counter.ChangeStep{Text: arg}
	}

	// Out-of-range values are clamped and saved, then reported
	err := r.Apply(ctx, ev)
	if showErr := r.Show(FormatText); showErr != nil {
		return showErr
	}
	return err
}

// History prints the history in the given format
func (r *Runner) History(format string) error {
	text, err := formatHistory(r.state.History, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, text)
	return err
}

// QueryHistory prints the result of a JMESPath expression over the history
func (r *Runner) QueryHistory(expression string) error {
	text, err := filter.Query(r.state.History, expression)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, text)
	return err
}

// ClearHistory empties the history and keeps the value
func (r *Runner) ClearHistory(ctx context.Context) error {
	if err := r.Apply(ctx, counter.ResetHistory{}); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.out, "History cleared")
	return err
}

// Import replaces the history with the rows of a CSV file
func (r *Runner) Import(ctx context.Context, path string) error {
	if err := r.Apply(ctx, counter.CsvLoaded{Path: path}); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.out, "Imported %d entries, value is now %d\n", len(r.state.History), r.state.Value)
	return err
}

// Export writes the history as CSV to w
func (r *Runner) Export(ctx context.Context, w io.Writer) error {
	r.clip = w
	defer func() { r.clip = r.out }()
	return r.Apply(ctx, counter.ExportHistory{})
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/studiowebux/tally/internal/codec"
	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/storage"
)

// Runner drives the counter reducer without a terminal UI. Effects are
// carried out synchronously before Apply returns.
type Runner struct {
	store  storage.Store
	out    io.Writer
	logger *zap.Logger

	// clip receives CopyToClipboard text. It defaults to out.
	clip io.Writer

	intN  func(n int) int
	state counter.State
}

// NewRunner loads the stored snapshot. An unreadable snapshot is logged
// and replaced by a fresh state on the next write.
func NewRunner(ctx context.Context, store storage.Store, out io.Writer, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{
		store:  store,
		out:    out,
		clip:   out,
		logger: logger,
		intN:   rand.IntN,
		state:  counter.New(),
	}

	snap, err := store.Load(ctx)
	switch {
	case err == nil:
		r.state, _ = counter.Reduce(counter.ExternalStorageChanged{Snapshot: &snap}, r.state)
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, codec.ErrDecode):
		logger.Warn("stored state unreadable, starting fresh", zap.Error(err))
	default:
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	return r, nil
}

// State returns the current counter state
func (r *Runner) State() counter.State {
	return r.state
}

// Apply feeds events through the reducer in order. Events produced by
// effects are handled before the next queued event. A step error left in
// the final state is returned.
func (r *Runner) Apply(ctx context.Context, events ...counter.Event) error {
	queue := append([]counter.Event(nil), events...)

	var stepErr error
	for len(queue) > 0 {
		ev := queue[0]
		queue = queue[1:]

		next, effects := counter.Reduce(ev, r.state)
		r.state = next
		if err := stepError(ev); err != nil || !next.HasError() {
			stepErr = err
		}
		r.logger.Debug("event applied",
			zap.String("event", fmt.Sprintf("%T", ev)),
			zap.Int("value", next.Value),
			zap.Int("step", next.Step),
		)

		followUps, err := r.runEffects(ctx, effects)
		if err != nil {
			return err
		}
		queue = append(followUps, queue...)
	}

	if r.state.HasError() {
		if stepErr != nil {
			return stepErr
		}
		return errors.New(r.state.ErrorMessage)
	}
	return nil
}

// stepError returns the *counter.StepError the reducer turned into
// ErrorMessage for step events, so callers can match ErrParse and ErrRange
func stepError(ev counter.Event) error {
	var text string
	switch e := ev.(type) {
	case counter.ChangeStep:
		text = e.Text
	case counter.RandomStepGenerated:
		text = strconv.Itoa(e.N)
	default:
		return nil
	}
	_, err := counter.ParseStep(text)
	return err
}

func (r *Runner) runEffects(ctx context.Context, effects []counter.Effect) ([]counter.Event, error) {
	var events []counter.Event

	for _, effect := range effects {
		switch e := effect.(type) {
		case counter.Persist:
			if err := r.store.Save(ctx, e.Snapshot); err != nil {
				return nil, fmt.Errorf("failed to save state: %w", err)
			}

		case counter.GenerateRandomStep:
			events = append(events, counter.RandomStepGenerated{N: e.Min + r.intN(e.Max-e.Min+1)})

		case counter.ReadFile:
			data, err := os.ReadFile(e.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", e.Path, err)
			}
			text := string(data)
			if _, err := codec.DecodeCSVString(text); err != nil {
				return nil, fmt.Errorf("failed to import %s: %w", e.Path, err)
			}
			events = append(events, counter.CsvTextRead{Text: text})

		case counter.CopyToClipboard:
			if _, err := io.WriteString(r.clip, e.Text); err != nil {
				return nil, fmt.Errorf("failed to write export: %w", err)
			}

		case counter.Schedule, counter.OpenFilePicker:
			// No event loop outlives a command
			r.logger.Debug("effect dropped", zap.String("effect", fmt.Sprintf("%T", effect)))
		}
	}

	return events, nil
}

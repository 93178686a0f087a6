package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/tally/internal/counter"
	"github.com/studiowebux/tally/internal/storage"
	"github.com/studiowebux/tally/internal/types"
)

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, storage.Store) {
	t.Helper()

	store, err := storage.NewFileStore(t.TempDir(), "tally-state", nil)
	require.NoError(t, err)

	var out bytes.Buffer
	r, err := NewRunner(context.Background(), store, &out, nil)
	require.NoError(t, err)
	return r, &out, store
}

func reload(t *testing.T, store storage.Store) types.Snapshot {
	t.Helper()
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	return snap
}

func TestRunner_IncrementPersists(t *testing.T) {
	r, out, store := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, r.Increment(ctx, 3))
	assert.Equal(t, 3, r.State().Value)
	assert.Contains(t, out.String(), "value 3")

	snap := reload(t, store)
	assert.Equal(t, 3, snap.Value)
	assert.Len(t, snap.History, 3)
	assert.Equal(t, types.HistoryItem{Event: counter.LabelIncrement, PreviousValue: 2, Value: 3}, snap.History[0])
}

func TestRunner_StateSurvivesAcrossRunners(t *testing.T) {
	r, _, store := newTestRunner(t)
	ctx := context.Background()
	require.NoError(t, r.SetStep(ctx, "4"))
	require.NoError(t, r.Decrement(ctx, 1))

	var out bytes.Buffer
	again, err := NewRunner(ctx, store, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, -4, again.State().Value)
	assert.Equal(t, 4, again.State().Step)
}

func TestRunner_RepeatRejectsZero(t *testing.T) {
	r, _, _ := newTestRunner(t)
	assert.Error(t, r.Increment(context.Background(), 0))
}

func TestRunner_SetStep(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		wantStep int
		wantErr  error
		saved    bool
	}{
		{"number", "7", 7, nil, true},
		{"trimmed", "  12 ", 12, nil, true},
		{"reset", "reset", counter.DefaultStep, nil, true},
		{"clamped high", "250", counter.MaxStep, counter.ErrRange, true},
		{"clamped low", "-3", counter.MinStep, counter.ErrRange, true},
		{"not a number", "abc", counter.DefaultStep, counter.ErrParse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, store := newTestRunner(t)
			err := r.SetStep(context.Background(), tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var stepErr *counter.StepError
				assert.ErrorAs(t, err, &stepErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStep, r.State().Step)

			_, loadErr := store.Load(context.Background())
			if tt.saved {
				assert.NoError(t, loadErr)
			} else {
				assert.ErrorIs(t, loadErr, storage.ErrNotFound)
			}
		})
	}
}

func TestRunner_StepErrorClearedByLaterStep(t *testing.T) {
	r, _, _ := newTestRunner(t)
	ctx := context.Background()

	err := r.Apply(ctx, counter.ChangeStep{Text: "abc"}, counter.ChangeStep{Text: "4"})
	assert.NoError(t, err)
	assert.Equal(t, 4, r.State().Step)

	err = r.Apply(ctx, counter.ChangeStep{Text: "999"}, counter.Increment{})
	assert.ErrorIs(t, err, counter.ErrRange)
	assert.Equal(t, counter.MaxStep, r.State().Value)
}

func TestRunner_RandomStep(t *testing.T) {
	r, _, _ := newTestRunner(t)
	r.intN = func(n int) int { return 2 }

	require.NoError(t, r.SetStep(context.Background(), "random"))
	assert.Equal(t, counter.RandomStepMin+2, r.State().Step)
}

func TestRunner_ResetKeepsHistory(t *testing.T) {
	r, _, store := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, r.Increment(ctx, 2))
	require.NoError(t, r.Reset(ctx))

	snap := reload(t, store)
	assert.Equal(t, 0, snap.Value)
	require.Len(t, snap.History, 3)
	assert.Equal(t, counter.LabelReset, snap.History[0].Event)
}

func TestRunner_ClearHistory(t *testing.T) {
	r, _, store := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, r.Increment(ctx, 2))
	require.NoError(t, r.ClearHistory(ctx))

	snap := reload(t, store)
	assert.Equal(t, 2, snap.Value)
	assert.Empty(t, snap.History)
}

func TestRunner_ExportImportRoundTrip(t *testing.T) {
	r, _, _ := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, r.Increment(ctx, 2))
	require.NoError(t, r.Decrement(ctx, 1))

	var csv bytes.Buffer
	require.NoError(t, r.Export(ctx, &csv))
	assert.True(t, strings.HasPrefix(csv.String(), "event,previous_value,value\n"))

	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, csv.Bytes(), 0644))

	other, out, store := newTestRunner(t)
	require.NoError(t, other.Import(ctx, path))
	assert.Contains(t, out.String(), "Imported 3 entries")
	assert.Equal(t, r.State().History, other.State().History)
	assert.Equal(t, 1, other.State().Value)
	assert.Equal(t, 1, reload(t, store).Value)
}

func TestRunner_ImportInvalid(t *testing.T) {
	r, _, store := newTestRunner(t)

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("event,value\nincrement,1\n"), 0644))

	err := r.Import(context.Background(), path)
	assert.Error(t, err)
	_, loadErr := store.Load(context.Background())
	assert.ErrorIs(t, loadErr, storage.ErrNotFound)
}

func TestRunner_ImportMissingFile(t *testing.T) {
	r, _, _ := newTestRunner(t)
	assert.Error(t, r.Import(context.Background(), filepath.Join(t.TempDir(), "nope.csv")))
}

func TestRunner_ShowFormats(t *testing.T) {
	r, out, _ := newTestRunner(t)
	require.NoError(t, r.Increment(context.Background(), 1))

	out.Reset()
	require.NoError(t, r.Show(FormatJSON))
	var fromJSON types.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &fromJSON))
	assert.Equal(t, 1, fromJSON.Value)

	out.Reset()
	require.NoError(t, r.Show(FormatYAML))
	var fromYAML types.Snapshot
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &fromYAML))
	assert.Equal(t, 1, fromYAML.Step)
	assert.Len(t, fromYAML.History, 1)

	assert.Error(t, r.Show("xml"))
}

func TestRunner_HistoryText(t *testing.T) {
	r, out, _ := newTestRunner(t)

	require.NoError(t, r.History(FormatText))
	assert.Contains(t, out.String(), "No history")

	require.NoError(t, r.Increment(context.Background(), 1))
	out.Reset()
	require.NoError(t, r.History(FormatText))
	assert.Contains(t, out.String(), "increment")
	assert.Contains(t, out.String(), "+1")

	out.Reset()
	require.NoError(t, r.History(FormatCSV))
	assert.Equal(t, "event,previous_value,value\nincrement,0,1\n", out.String())
}

func TestRunner_QueryHistory(t *testing.T) {
	r, out, _ := newTestRunner(t)
	ctx := context.Background()
	require.NoError(t, r.Increment(ctx, 2))
	require.NoError(t, r.Decrement(ctx, 1))

	out.Reset()
	require.NoError(t, r.QueryHistory("[?delta < `0`].value"))
	assert.JSONEq(t, "[1]", out.String())

	assert.Error(t, r.QueryHistory("[?"))
}

func TestNewRunner_UnreadableState(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewFileStore(dir, "tally-state", nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally-state.json"), []byte("garbage"), 0644))

	r, err := NewRunner(context.Background(), store, &bytes.Buffer{}, nil)
	require.NoError(t, err)
	assert.Equal(t, counter.New().Value, r.State().Value)
}

func TestStepItems(t *testing.T) {
	items := stepItems(5)
	require.Len(t, items, len(stepPresets)+2)

	active := 0
	for _, it := range items {
		if it.(item).isActive {
			active++
			assert.Equal(t, "5", it.(item).value)
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, StepRandom, items[len(items)-2].(item).value)
	assert.Equal(t, StepReset, items[len(items)-1].(item).value)
}

package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/studiowebux/tally/internal/types"
)

// CSV column names, shared with the JSON field names
const (
	ColumnEvent         = "event"
	ColumnPreviousValue = "previous_value"
	ColumnValue         = "value"
)

// CSVMIMEType is the MIME type accepted by the history importer
const CSVMIMEType = "text/csv"

// DecodeCSV parses history rows from a CSV stream with a header row.
// Columns are located by header name and may appear in any order.
// Any malformed row fails the whole decode; no partial result is returned.
func DecodeCSV(r io.Reader) ([]types.HistoryItem, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: csv: missing header row", ErrDecode)
		}
		return nil, fmt.Errorf("%w: csv: %v", ErrDecode, err)
	}

	columns := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, required := range []string{ColumnEvent, ColumnPreviousValue, ColumnValue} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: csv: missing column %q", ErrDecode, required)
		}
	}

	items := []types.HistoryItem{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrDecode, err)
		}

		previous, err := strconv.Atoi(strings.TrimSpace(record[columns[ColumnPreviousValue]]))
		if err != nil {
			return nil, fmt.Errorf("%w: csv: line %d: invalid %s: %v", ErrDecode, line, ColumnPreviousValue, err)
		}
		value, err := strconv.Atoi(strings.TrimSpace(record[columns[ColumnValue]]))
		if err != nil {
			return nil, fmt.Errorf("%w: csv: line %d: invalid %s: %v", ErrDecode, line, ColumnValue, err)
		}

		items = append(items, types.HistoryItem{
			Event:         strings.TrimSpace(record[columns[ColumnEvent]]),
			PreviousValue: previous,
			Value:         value,
		})
	}

	return items, nil
}

// DecodeCSVString is DecodeCSV over an in-memory string
func DecodeCSVString(text string) ([]types.HistoryItem, error) {
	return DecodeCSV(strings.NewReader(text))
}

// EncodeCSV writes the header and one row per item, in the given order
func EncodeCSV(w io.Writer, items []types.HistoryItem) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{ColumnEvent, ColumnPreviousValue, ColumnValue}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, item := range items {
		row := []string{item.Event, strconv.Itoa(item.PreviousValue), strconv.Itoa(item.Value)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// EncodeCSVString is EncodeCSV into a string
func EncodeCSVString(items []types.HistoryItem) string {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_ = EncodeCSV(&buf, items)
	return buf.String()
}

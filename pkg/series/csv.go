package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	// IndexHeader is the leading column of exported tables
	IndexHeader = "date"
	// DateLayout is the timestamp format used in exports
	DateLayout = "2006-01-02"
)

// WriteCSV writes the table with the timestamp as first column followed by
// every column in table order. Missing values are written as empty fields.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := append([]string{IndexHeader}, t.Columns()...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := 0; i < t.Len(); i++ {
		record := make([]string, 0, len(header))
		record = append(record, formatTimestamp(t.index[i]))
		for j := range t.cols {
			record = append(record, formatValue(t.cols[j][i]))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header")
	}

	header := records[0]
	if len(header) == 0 || header[0] != IndexHeader {
		return nil, fmt.Errorf("csv must start with a %q column", IndexHeader)
	}
	names := header[1:]

	index := make([]time.Time, 0, len(records)-1)
	cols := make([][]float64, len(names))
	for n, record := range records[1:] {
		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		index = append(index, ts)
		for j := range names {
			v, err := parseValue(record[j+1])
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", n+1, names[j], err)
			}
			cols[j] = append(cols[j], v)
		}
	}

	if len(index) == 0 {
		for j := range cols {
			cols[j] = []float64{}
		}
	}
	return NewTable(index, names, cols)
}

func formatTimestamp(ts time.Time) string {
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 && ts.Nanosecond() == 0 {
		return ts.Format(DateLayout)
	}
	return ts.Format(time.RFC3339)
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(DateLayout, s); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return ts, nil
}

func formatValue(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseValue(s string) (float64, error) {
	if s == "" {
		return Missing(), nil
	}
	return strconv.ParseFloat(s, 64)
}

package series

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2025, time.January, d, 0, 0, 0, 0, time.UTC)
}

func mustTable(t *testing.T, index []time.Time, names []string, cols ...[]float64) *Table {
	t.Helper()
	table, err := NewTable(index, names, cols)
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}
	return table
}

func TestNewTable_Validation(t *testing.T) {
	if _, err := NewTable([]time.Time{day(2), day(1)}, []string{"a"}, [][]float64{{1, 2}}); err == nil {
		t.Error("Expected error for descending index")
	}
	if _, err := NewTable([]time.Time{day(1), day(1)}, []string{"a"}, [][]float64{{1, 2}}); err == nil {
		t.Error("Expected error for duplicate timestamps")
	}
	if _, err := NewTable([]time.Time{day(1)}, []string{"a", "a"}, [][]float64{{1}, {2}}); err == nil {
		t.Error("Expected error for duplicate column names")
	}
	if _, err := NewTable([]time.Time{day(1)}, []string{"a"}, [][]float64{{1, 2}}); err == nil {
		t.Error("Expected error for column length mismatch")
	}
}

func TestTable_IsEmpty(t *testing.T) {
	var nilTable *Table
	if !nilTable.IsEmpty() || !Empty().IsEmpty() {
		t.Error("Expected nil and Empty() tables to be empty")
	}

	noColumns := mustTable(t, []time.Time{day(1)}, nil)
	if !noColumns.IsEmpty() {
		t.Error("Expected table without columns to be empty")
	}
}

func TestMerge_OuterJoin(t *testing.T) {
	left := mustTable(t, []time.Time{day(1), day(8)}, []string{"a"}, []float64{10, 20})
	right := mustTable(t, []time.Time{day(8), day(15)}, []string{"b"}, []float64{5, 6})

	merged := Merge(left, right)

	if merged.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", merged.Len())
	}
	cols := merged.Columns()
	if len(cols) != 2 || cols[0] != "a" || cols[1] != "b" {
		t.Fatalf("Unexpected columns: %v", cols)
	}

	a, _ := merged.Column("a")
	b, _ := merged.Column("b")
	if a[0] != 10 || a[1] != 20 || !IsMissing(a[2]) {
		t.Errorf("Unexpected column a: %v", a)
	}
	if !IsMissing(b[0]) || b[1] != 5 || b[2] != 6 {
		t.Errorf("Unexpected column b: %v", b)
	}
}

func TestMerge_FirstWriterWins(t *testing.T) {
	left := mustTable(t, []time.Time{day(1)}, []string{"a"}, []float64{1})
	right := mustTable(t, []time.Time{day(1), day(2)}, []string{"a", "c"}, []float64{99, 98}, []float64{3, 4})

	merged := Merge(left, right)

	if cols := merged.Columns(); len(cols) != 2 || cols[0] != "a" || cols[1] != "c" {
		t.Fatalf("Unexpected columns: %v", cols)
	}
	a, _ := merged.Column("a")
	if a[0] != 1 || !IsMissing(a[1]) {
		t.Errorf("Expected left column to win, got %v", a)
	}
}

func TestMerge_WithEmpty(t *testing.T) {
	table := mustTable(t, []time.Time{day(1)}, []string{"a"}, []float64{1})

	if got := Merge(Empty(), table); got.Len() != 1 || !got.HasColumn("a") {
		t.Errorf("Merge(empty, t) should equal t")
	}
	if got := Merge(table, nil); got.Len() != 1 || !got.HasColumn("a") {
		t.Errorf("Merge(t, nil) should equal t")
	}
	if got := Merge(nil, Empty()); !got.IsEmpty() {
		t.Errorf("Merge of empties should be empty")
	}
}

func TestTable_ImmutableAccessors(t *testing.T) {
	table := mustTable(t, []time.Time{day(1)}, []string{"a"}, []float64{1})

	col, _ := table.Column("a")
	col[0] = 42
	if again, _ := table.Column("a"); again[0] != 1 {
		t.Error("Column() leaked internal storage")
	}

	extended, err := table.WithColumn("b", []float64{2})
	if err != nil {
		t.Fatalf("WithColumn failed: %v", err)
	}
	if table.HasColumn("b") || !extended.HasColumn("b") {
		t.Error("WithColumn must not modify the receiver")
	}
	if _, err := extended.WithColumn("a", []float64{3}); err == nil {
		t.Error("Expected error adding duplicate column")
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	table := mustTable(t,
		[]time.Time{day(5), day(12), day(19)},
		[]string{"risparmio", "debiti", "Economic_Stress_Index"},
		[]float64{12.345678901234, 0, 33.3},
		[]float64{math.NaN(), 50, 1.0 / 3.0},
		[]float64{12.345678901234, 25, 16.65},
	)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "date,risparmio,debiti,Economic_Stress_Index" {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "2025-01-05,12.345678901234,,") {
		t.Errorf("Unexpected first row: %s", lines[1])
	}

	parsed, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	if parsed.Len() != table.Len() {
		t.Fatalf("Expected %d rows, got %d", table.Len(), parsed.Len())
	}
	for i, ts := range table.Index() {
		if !parsed.Index()[i].Equal(ts) {
			t.Errorf("Row %d: timestamp %v != %v", i, parsed.Index()[i], ts)
		}
	}
	origCols := table.Columns()
	parsedCols := parsed.Columns()
	for j := range origCols {
		if parsedCols[j] != origCols[j] {
			t.Errorf("Column %d: %s != %s", j, parsedCols[j], origCols[j])
		}
		want, _ := table.Column(origCols[j])
		got, _ := parsed.Column(origCols[j])
		for i := range want {
			if IsMissing(want[i]) != IsMissing(got[i]) || (!IsMissing(want[i]) && want[i] != got[i]) {
				t.Errorf("Column %s row %d: %v != %v", origCols[j], i, got[i], want[i])
			}
		}
	}
}

func TestReadCSV_Errors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("Expected error for empty input")
	}
	if _, err := ReadCSV(strings.NewReader("when,a\n2025-01-01,1\n")); err == nil {
		t.Error("Expected error for wrong index header")
	}
	if _, err := ReadCSV(strings.NewReader("date,a\nyesterday,1\n")); err == nil {
		t.Error("Expected error for bad timestamp")
	}
	if _, err := ReadCSV(strings.NewReader("date,a\n2025-01-01,abc\n")); err == nil {
		t.Error("Expected error for bad value")
	}
}

func TestFromSeries(t *testing.T) {
	a, _ := NewSeries("a", []time.Time{day(1), day(2)}, []float64{1, 2})
	b, _ := NewSeries("b", []time.Time{day(2), day(3)}, []float64{3, 4})

	table := FromSeries(a, EmptySeries("skip"), b)

	if cols := table.Columns(); len(cols) != 2 || cols[0] != "a" || cols[1] != "b" {
		t.Fatalf("Unexpected columns: %v", cols)
	}
	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.Len())
	}
	if !FromSeries().IsEmpty() {
		t.Error("Expected empty table from no series")
	}
}

package features

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RyanBlaney/sonido-speech/table"
)

// Column is one field of a feature table. A Width above 1 marks a
// fixed-length vector stored in a single cell.
type Column struct {
	Name  string `json:"name"`
	Width int    `json:"width"`
}

// Scalar returns a single-value column
func Scalar(name string) Column {
	return Column{Name: name, Width: 1}
}

// Scalars returns single-value columns for names, in order
func Scalars(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Scalar(n)
	}
	return cols
}

// FeatureRow is the descriptor vector of one recording. Values holds the
// columns of its table laid end to end; NaN marks an undefined measure.
type FeatureRow struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// FeatureTable collects the rows of one extractor family under a fixed
// header
type FeatureTable struct {
	IDColumn string       `json:"id_column"`
	Columns  []Column     `json:"columns"`
	Rows     []FeatureRow `json:"rows"`
}

// NewFeatureTable creates a headered table with no rows
func NewFeatureTable(idColumn string, columns []Column) *FeatureTable {
	return &FeatureTable{
		IDColumn: idColumn,
		Columns:  append([]Column(nil), columns...),
	}
}

// Width returns the number of values in each row
func (t *FeatureTable) Width() int {
	w := 0
	for _, c := range t.Columns {
		w += c.Width
	}
	return w
}

// Append adds a row. Rows whose width differs from the header are rejected.
func (t *FeatureTable) Append(row FeatureRow) error {
	if len(row.Values) != t.Width() {
		return fmt.Errorf("row %q has %d values, header expects %d", row.ID, len(row.Values), t.Width())
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// offset returns the position of the first value of column name
func (t *FeatureTable) offset(name string) (int, Column, bool) {
	off := 0
	for _, c := range t.Columns {
		if c.Name == name {
			return off, c, true
		}
		off += c.Width
	}
	return 0, Column{}, false
}

// Column returns the values of a single-value column, row aligned
func (t *FeatureTable) Column(name string) ([]float64, error) {
	off, col, ok := t.offset(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	if col.Width != 1 {
		return nil, fmt.Errorf("column %q is a vector of width %d", name, col.Width)
	}

	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row.Values[off]
	}
	return values, nil
}

// AddColumns appends scalar columns. values[i] holds the new values of row i.
func (t *FeatureTable) AddColumns(names []string, values [][]float64) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("got values for %d rows, table has %d", len(values), len(t.Rows))
	}
	for i, v := range values {
		if len(v) != len(names) {
			return fmt.Errorf("row %d: got %d values for %d columns", i, len(v), len(names))
		}
	}

	for i := range t.Rows {
		t.Rows[i].Values = append(t.Rows[i].Values, values[i]...)
	}
	t.Columns = append(t.Columns, Scalars(names...)...)
	return nil
}

// ToTable renders the feature table as CSV cells
func (t *FeatureTable) ToTable() *table.Table {
	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, t.IDColumn)
	for _, c := range t.Columns {
		header = append(header, c.Name)
	}

	out := table.New(header)
	for _, row := range t.Rows {
		cells := make([]string, 0, len(header))
		cells = append(cells, row.ID)

		off := 0
		for _, c := range t.Columns {
			if c.Width == 1 {
				cells = append(cells, formatValue(row.Values[off]))
			} else {
				cells = append(cells, formatVector(row.Values[off:off+c.Width]))
			}
			off += c.Width
		}
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// Write renders the table and stores it at path
func (t *FeatureTable) Write(path string) error {
	return table.Write(path, t.ToTable())
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatVector(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			parts[i] = "nan"
		} else {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

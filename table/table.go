package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyDataTable is returned for a file with no columns (zero bytes
	// or only blank lines)
	ErrEmptyDataTable = errors.New("empty data table")

	// ErrEmptyMeasurementTable is returned when a table has a header but
	// no data rows to aggregate
	ErrEmptyMeasurementTable = errors.New("empty measurement table")
)

// Table is a comma-separated table of string cells. The header is the
// first record of the file; every row has exactly len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// New creates an empty table with the given header
func New(header []string) *Table {
	return &Table{Header: append([]string(nil), header...)}
}

// ColumnIndex returns the position of name in the header or -1
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// AddRow appends a row. Short rows are padded with empty cells.
func (t *Table) AddRow(row []string) error {
	if len(row) > len(t.Header) {
		return fmt.Errorf("row has %d cells, header has %d", len(row), len(t.Header))
	}
	padded := make([]string, len(t.Header))
	copy(padded, row)
	t.Rows = append(t.Rows, padded)
	return nil
}

// Parse reads a table from r
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 || isBlank(records[0]) {
		return nil, ErrEmptyDataTable
	}

	t := New(records[0])
	for i, record := range records[1:] {
		if err := t.AddRow(record); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
	}
	return t, nil
}

// Read loads the table stored at path
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Encode writes the header and rows to w
func (t *Table) Encode(w io.Writer) error {
	writer := csv.NewWriter(w)
	if len(t.Header) > 0 {
		if err := writer.Write(t.Header); err != nil {
			return err
		}
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// Write stores the table at path. The file is written next to its
// destination and renamed into place, so readers never see a partial table.
func Write(path string, t *Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := t.Encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move table into place: %w", err)
	}
	return nil
}

// Concat stacks tables vertically under the ordered union of their
// headers. Cells for columns a table lacks are empty.
func Concat(tables ...*Table) *Table {
	var header []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, h := range t.Header {
			if !seen[h] {
				seen[h] = true
				header = append(header, h)
			}
		}
	}

	out := New(header)
	for _, t := range tables {
		positions := make([]int, len(t.Header))
		for i, h := range t.Header {
			positions[i] = out.ColumnIndex(h)
		}
		for _, row := range t.Rows {
			merged := make([]string, len(header))
			for i, cell := range row {
				merged[positions[i]] = cell
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// listFiles returns regular files in dir with extension ext, in directory
// listing order
func listFiles(dir, ext string) ([]string, error) {
	d, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer d.Close()

	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

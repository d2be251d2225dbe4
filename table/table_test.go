package table

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-speech/report"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func rowSet(t *Table) []string {
	rows := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = strings.Join(r, "|")
	}
	sort.Strings(rows)
	return rows
}

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader("a,b,c\n1,2,3\n4,5\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Header)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", ""}}, tbl.Rows)
	assert.Equal(t, 1, tbl.ColumnIndex("b"))
	assert.Equal(t, -1, tbl.ColumnIndex("z"))
}

func TestParseEmpty(t *testing.T) {
	for name, content := range map[string]string{
		"zero bytes": "",
		"blank":      "\n\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(content))
			assert.ErrorIs(t, err, ErrEmptyDataTable)
		})
	}
}

func TestParseTooManyCells(t *testing.T) {
	_, err := Parse(strings.NewReader("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyDataTable))
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	tbl := New([]string{"Filename", "LPC Coefficients"})
	require.NoError(t, tbl.AddRow([]string{"a.wav", "[1 -0.5]"}))

	require.NoError(t, Write(path, tbl))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Filename,LPC Coefficients\na.wav,[1 -0.5]\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestConcatUnionHeader(t *testing.T) {
	a := &Table{Header: []string{"id", "x"}, Rows: [][]string{{"1", "10"}}}
	b := &Table{Header: []string{"id", "y"}, Rows: [][]string{{"2", "20"}}}

	out := Concat(a, b)
	assert.Equal(t, []string{"id", "x", "y"}, out.Header)
	assert.Equal(t, [][]string{{"1", "10", ""}, {"2", "", "20"}}, out.Rows)
}

func TestConcatAssociative(t *testing.T) {
	h := []string{"id", "v"}
	a := &Table{Header: h, Rows: [][]string{{"a", "1"}}}
	b := &Table{Header: h, Rows: [][]string{{"b", "2"}, {"c", "3"}}}
	c := &Table{Header: h, Rows: [][]string{{"d", "4"}}}

	left := Concat(Concat(a, b), c)
	right := Concat(a, Concat(b, c))
	assert.Equal(t, left.Header, right.Header)
	assert.Equal(t, rowSet(left), rowSet(right))
	assert.Len(t, left.Rows, 4)
}

func TestReduce(t *testing.T) {
	tbl := &Table{
		Header: []string{"filename", "F1frequency", "F2frequency", "empty"},
		Rows: [][]string{
			{"a.wav", "1", "3", ""},
			{"a.wav", "3", "", ""},
			{"a.wav", "NaN", "5", ""},
		},
	}

	out, err := Reduce(tbl)
	require.NoError(t, err)
	assert.Equal(t, tbl.Header, out.Header)
	assert.Equal(t, [][]string{{"a.wav", "2", "4", ""}}, out.Rows)
}

func TestReduceNoRows(t *testing.T) {
	_, err := Reduce(New([]string{"a", "b"}))
	assert.ErrorIs(t, err, ErrEmptyMeasurementTable)
}

func TestReduceFile(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "x.csv", "a,b\n1,2\n3,4\n")

	require.NoError(t, ReduceFile(path))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2", "3"}}, got.Rows)
}

func TestPurgePolicy(t *testing.T) {
	var removed []string
	policy := NewPurgePolicy(true)
	policy.remove = func(p string) error {
		removed = append(removed, p)
		return nil
	}

	status, err := policy.Handle("empty.csv", ErrEmptyDataTable)
	assert.Equal(t, report.StatusDeleted, status)
	assert.ErrorIs(t, err, ErrEmptyDataTable)

	status, _ = policy.Handle("bad.csv", errors.New("parse failure"))
	assert.Equal(t, report.StatusSkipped, status)
	assert.Equal(t, []string{"empty.csv"}, removed)

	status, _ = NewPurgePolicy(false).Handle("empty.csv", ErrEmptyMeasurementTable)
	assert.Equal(t, report.StatusSkipped, status)
}

func TestMergeDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id,v\na,1\n")
	writeCSV(t, dir, "b.csv", "id,v\nb,2\nc,3\n")
	empty := writeCSV(t, dir, "empty.csv", "")
	writeCSV(t, dir, "notes.txt", "ignored")
	output := writeCSV(t, dir, "merged.csv", "id,v\nstale,0\n")

	merged, outcomes, err := NewMerger(NewPurgePolicy(true)).MergeDirectory(context.Background(), dir, output)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "v"}, merged.Header)
	assert.Equal(t, []string{"a|1", "b|2", "c|3"}, rowSet(merged))
	assert.Len(t, outcomes, 3)

	_, statErr := os.Stat(empty)
	assert.True(t, os.IsNotExist(statErr), "empty table should be purged")

	for _, o := range outcomes {
		if o.Path == empty {
			assert.Equal(t, report.StatusDeleted, o.Status)
		} else {
			assert.Equal(t, report.StatusProcessed, o.Status)
		}
	}
}

func TestMergeDirectoryKeepsEmptyWithoutPurge(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id,v\na,1\n")
	empty := writeCSV(t, dir, "empty.csv", "")

	_, outcomes, err := NewMerger(NewPurgePolicy(false)).MergeDirectory(context.Background(), dir, filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)
	assert.FileExists(t, empty)
}

func TestMergeDirectoryNothingReadable(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "empty.csv", "")

	_, _, err := NewMerger(NewPurgePolicy(false)).MergeDirectory(context.Background(), dir, "")
	assert.Error(t, err)
}

func TestMergeDirectoryCancelled(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "a.csv", "id\n1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewMerger(NewPurgePolicy(false)).MergeDirectory(ctx, dir, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReduceDirectory(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "good.csv", "filename,F1frequency\nx.wav,500\nx.wav,700\n")
	headerOnly := writeCSV(t, dir, "header.csv", "filename,F1frequency\n")

	outcomes, err := NewReducer(NewPurgePolicy(true)).ReduceDirectory(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)

	got, err := Read(good)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x.wav", "600"}}, got.Rows)
	assert.NoFileExists(t, headerOnly)
}

package network

import (
	"errors"
	"fmt"
)

// Frame is a snapshot-indexed table: one row per snapshot, one column per
// component.
type Frame struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Data    [][]float64 `json:"data" yaml:"data"`
}

// NewFrame returns a zero-filled frame.
func NewFrame(rows int, columns []string) Frame {
	data := make([][]float64, rows)
	for i := range data {
		data[i] = make([]float64, len(columns))
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Frame{Columns: cols, Data: data}
}

// Shape returns (rows, columns). A frame whose rows disagree with its
// columns has no usable columns.
func (f Frame) Shape() (int, int) {
	for _, row := range f.Data {
		if len(row) != len(f.Columns) {
			return len(f.Data), 0
		}
	}
	return len(f.Data), len(f.Columns)
}

// Empty reports whether the frame holds no values.
func (f Frame) Empty() bool {
	rows, cols := f.Shape()
	return rows == 0 || cols == 0
}

// Row returns a copy of row i.
func (f Frame) Row(i int) ([]float64, bool) {
	if i < 0 || i >= len(f.Data) {
		return nil, false
	}
	row := make([]float64, len(f.Data[i]))
	copy(row, f.Data[i])
	return row, true
}

// Column returns a copy of the named column.
func (f Frame) Column(name string) ([]float64, bool) {
	j := f.index(name)
	if j < 0 {
		return nil, false
	}
	col := make([]float64, len(f.Data))
	for i, row := range f.Data {
		if j < len(row) {
			col[i] = row[j]
		}
	}
	return col, true
}

// Set writes a single value.
func (f *Frame) Set(row int, column string, v float64) error {
	j := f.index(column)
	if j < 0 {
		return fmt.Errorf("frame has no column %q", column)
	}
	if row < 0 || row >= len(f.Data) {
		return fmt.Errorf("row %d out of range [0, %d)", row, len(f.Data))
	}
	if j >= len(f.Data[row]) {
		return fmt.Errorf("row %d has %d values, frame has %d columns", row, len(f.Data[row]), len(f.Columns))
	}
	f.Data[row][j] = v
	return nil
}

// AddColumn appends a column of len(values) rows. An empty frame takes its
// row count from values.
func (f *Frame) AddColumn(name string, values []float64) error {
	if err := f.fits(name, len(values)); err != nil {
		return err
	}
	if len(f.Columns) == 0 && len(f.Data) == 0 {
		f.Data = make([][]float64, len(values))
	}
	f.Columns = append(f.Columns, name)
	for i := range f.Data {
		f.Data[i] = append(f.Data[i], values[i])
	}
	return nil
}

func (f Frame) fits(name string, rows int) error {
	if f.index(name) >= 0 {
		return fmt.Errorf("frame already has column %q", name)
	}
	if len(f.Columns) == 0 && len(f.Data) == 0 {
		return nil
	}
	if rows != len(f.Data) {
		return fmt.Errorf("column %q has %d rows, frame has %d", name, rows, len(f.Data))
	}
	if _, cols := f.Shape(); cols != len(f.Columns) {
		return errors.New("frame rows disagree with its columns")
	}
	return nil
}

// check reports a frame whose rows do not match its columns or the snapshot
// count. A frame without data is unset and passes.
func (f Frame) check(snapshots int) error {
	if len(f.Data) == 0 {
		return nil
	}
	if len(f.Data) != snapshots {
		return fmt.Errorf("frame has %d rows, network has %d snapshots", len(f.Data), snapshots)
	}
	for i, row := range f.Data {
		if len(row) != len(f.Columns) {
			return fmt.Errorf("row %d has %d values, frame has %d columns", i, len(row), len(f.Columns))
		}
	}
	return nil
}

func (f Frame) index(name string) int {
	for j, c := range f.Columns {
		if c == name {
			return j
		}
	}
	return -1
}

package storms

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field is a mutable 2D scalar grid with an explicit validity mask.
//
// Values are stored row-major: the cell at (row, col) lives at
// index row*Cols + col. A cell whose validity flag is false is undefined:
// its stored value is meaningless and must never be read.
type Field struct {
	Rows int
	Cols int

	values []float64
	valid  []bool
}

// NewField copies a row-major [][]float64 into a new Field.
//
// Every row must have the same length. NaN and infinite values are stored as
// undefined cells.
func NewField(values [][]float64) (*Field, error) {
	rows := len(values)
	if rows == 0 {
		return nil, fmt.Errorf("%w: field has no rows", ErrInvalidGeometry)
	}
	cols := len(values[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: field has no columns", ErrInvalidGeometry)
	}

	f := newEmptyField(rows, cols)
	for r, row := range values {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidGeometry, r, len(row), cols)
		}
		for c, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			f.values[r*cols+c] = v
			f.valid[r*cols+c] = true
		}
	}
	return f, nil
}

func newEmptyField(rows, cols int) *Field {
	return &Field{
		Rows:   rows,
		Cols:   cols,
		values: make([]float64, rows*cols),
		valid:  make([]bool, rows*cols),
	}
}

// At returns the value at (row, col) and whether the cell is defined.
func (f *Field) At(row, col int) (float64, bool) {
	i := row*f.Cols + col
	return f.values[i], f.valid[i]
}

// Erase marks the cell at (row, col) undefined.
func (f *Field) Erase(row, col int) {
	f.valid[row*f.Cols+col] = false
}

// Defined counts the cells that are not undefined.
func (f *Field) Defined() int {
	n := 0
	for _, ok := range f.valid {
		if ok {
			n++
		}
	}
	return n
}

// Range returns the minimum and maximum over defined cells. ok is false when
// every cell is undefined.
func (f *Field) Range() (lo, hi float64, ok bool) {
	defined := make([]float64, 0, len(f.values))
	for i, v := range f.values {
		if f.valid[i] {
			defined = append(defined, v)
		}
	}
	if len(defined) == 0 {
		return 0, 0, false
	}
	return floats.Min(defined), floats.Max(defined), true
}

// Clone returns an independent copy of the field.
func (f *Field) Clone() *Field {
	out := newEmptyField(f.Rows, f.Cols)
	copy(out.values, f.values)
	copy(out.valid, f.valid)
	return out
}

package storms

// cell is a grid position in (row, col) order.
type cell struct {
	Row int
	Col int
}

// region is one 4-connected component at a single sweep level.
//
// Cells are listed in discovery order. Interior and exterior are filled in by
// erode and partition the component.
type region struct {
	id       int32
	cells    []cell
	interior []cell
	exterior []cell
}

// labeler finds connected components of the cells that pass a level test.
//
// The label buffer is allocated once and reused for every level of a sweep.
// A label of zero means "not part of any component at this level".
type labeler struct {
	field  *Field
	labels []int32
}

func newLabeler(f *Field) *labeler {
	return &labeler{
		field:  f,
		labels: make([]int32, f.Rows*f.Cols),
	}
}

// label partitions the defined cells for which pass returns true into
// 4-connected regions.
//
// Regions are numbered in raster order of their first cell, which matches the
// order a row-major scan encounters them. Undefined cells never join a region.
func (l *labeler) label(pass func(v float64) bool) []*region {
	f := l.field
	for i := range l.labels {
		l.labels[i] = 0
	}

	regions := make([]*region, 0)
	var next int32

	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Cols; c++ {
			i := r*f.Cols + c
			if l.labels[i] != 0 || !f.valid[i] || !pass(f.values[i]) {
				continue
			}
			next++
			reg := &region{id: next}
			l.floodFill(reg, r, c, pass)
			regions = append(regions, reg)
		}
	}

	return regions
}

// floodFill grows a region from a seed cell using an explicit stack, so large
// regions cannot overflow the goroutine stack. Connectivity is 4-connected
// (no diagonals).
func (l *labeler) floodFill(reg *region, startRow, startCol int, pass func(v float64) bool) {
	f := l.field
	stack := []cell{{Row: startRow, Col: startCol}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.Row < 0 || p.Row >= f.Rows || p.Col < 0 || p.Col >= f.Cols {
			continue
		}
		i := p.Row*f.Cols + p.Col
		if l.labels[i] != 0 || !f.valid[i] || !pass(f.values[i]) {
			continue
		}

		l.labels[i] = reg.id
		reg.cells = append(reg.cells, p)

		stack = append(stack,
			cell{Row: p.Row - 1, Col: p.Col},
			cell{Row: p.Row + 1, Col: p.Col},
			cell{Row: p.Row, Col: p.Col - 1},
			cell{Row: p.Row, Col: p.Col + 1},
		)
	}
}

// erode splits a region into interior and exterior cells with one pass of
// binary erosion using a cross-shaped structuring element.
//
// A cell is interior when it and its four edge neighbours all belong to the
// region. Positions outside the grid count as background, so cells on the
// grid border are always exterior.
func (l *labeler) erode(reg *region) {
	f := l.field
	reg.interior = reg.interior[:0]
	reg.exterior = reg.exterior[:0]

	member := func(row, col int) bool {
		if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
			return false
		}
		return l.labels[row*f.Cols+col] == reg.id
	}

	for _, p := range reg.cells {
		if member(p.Row-1, p.Col) && member(p.Row+1, p.Col) &&
			member(p.Row, p.Col-1) && member(p.Row, p.Col+1) {
			reg.interior = append(reg.interior, p)
		} else {
			reg.exterior = append(reg.exterior, p)
		}
	}
}

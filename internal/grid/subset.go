package grid

import "fmt"

// Box is an inclusive longitude/latitude rectangle.
type Box struct {
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
}

// Subset extracts the cells of g whose coordinates fall inside box.
//
// The result is an independent copy; modifying it does not affect g. Boxes
// that cross the 0/360° seam are not supported: split them or use periodic
// detection on the full grid instead.
func Subset(g *Grid, box Box) (*Grid, error) {
	if box.LonMin > box.LonMax || box.LatMin > box.LatMax {
		return nil, fmt.Errorf("invalid region: min must be <= max (lon %g..%g, lat %g..%g)",
			box.LonMin, box.LonMax, box.LatMin, box.LatMax)
	}

	c1, c2 := span(g.Lon, box.LonMin, box.LonMax)
	r1, r2 := span(g.Lat, box.LatMin, box.LatMax)
	if c1 >= c2 || r1 >= r2 {
		return nil, fmt.Errorf("region lon %g..%g, lat %g..%g contains no grid cells",
			box.LonMin, box.LonMax, box.LatMin, box.LatMax)
	}

	out := &Grid{
		Name:   g.Name,
		Units:  g.Units,
		Source: g.Source,
		Lon:    append([]float64(nil), g.Lon[c1:c2]...),
		Lat:    append([]float64(nil), g.Lat[r1:r2]...),
		Values: make([][]float64, r2-r1),
	}
	for r := r1; r < r2; r++ {
		out.Values[r-r1] = append([]float64(nil), g.Values[r][c1:c2]...)
	}
	return out, nil
}

// span returns the half-open index range of axis values within [lo, hi].
func span(axis []float64, lo, hi float64) (int, int) {
	start := len(axis)
	for i, v := range axis {
		if v >= lo {
			start = i
			break
		}
	}
	end := start
	for end < len(axis) && axis[end] <= hi {
		end++
	}
	return start, end
}

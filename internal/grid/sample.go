package grid

import (
	"fmt"
	"math"
	"sort"
)

// SampleResult is the value of the grid cell nearest to a requested point.
type SampleResult struct {
	// Lon and Lat echo the requested point.
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`

	// Row and Col index the nearest cell; GridLon and GridLat are its centre.
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	GridLon float64 `json:"grid_lon"`
	GridLat float64 `json:"grid_lat"`

	// Value is the cell value. It is omitted when the cell is missing.
	Value   *float64 `json:"value,omitempty"`
	Defined bool     `json:"defined"`
	Units   string   `json:"units,omitempty"`
}

// Sample returns the value of the cell nearest to (lon, lat).
//
// Points outside the axis ranges are rejected rather than clamped, so a
// caller cannot mistake an edge value for the value at a distant point.
func Sample(g *Grid, lon, lat float64) (*SampleResult, error) {
	if lon < g.Lon[0] || lon > g.Lon[len(g.Lon)-1] || lat < g.Lat[0] || lat > g.Lat[len(g.Lat)-1] {
		return nil, fmt.Errorf("point (%g, %g) outside grid (lon %g..%g, lat %g..%g)",
			lon, lat, g.Lon[0], g.Lon[len(g.Lon)-1], g.Lat[0], g.Lat[len(g.Lat)-1])
	}

	row := nearest(g.Lat, lat)
	col := nearest(g.Lon, lon)
	res := &SampleResult{
		Lon:     lon,
		Lat:     lat,
		Row:     row,
		Col:     col,
		GridLon: g.Lon[col],
		GridLat: g.Lat[row],
		Units:   g.Units,
	}
	if v := g.Values[row][col]; !math.IsNaN(v) {
		res.Value = &v
		res.Defined = true
	}
	return res, nil
}

// nearest returns the index of the axis value closest to v. Ties go to the
// lower index.
func nearest(axis []float64, v float64) int {
	i := sort.SearchFloat64s(axis, v)
	switch {
	case i == 0:
		return 0
	case i == len(axis):
		return len(axis) - 1
	case v-axis[i-1] <= axis[i]-v:
		return i - 1
	default:
		return i
	}
}

// fractionalIndex maps a coordinate to a fractional axis index by linear
// interpolation. Values outside the axis are extrapolated from the end cells.
func fractionalIndex(axis []float64, v float64) float64 {
	n := len(axis)
	if n == 1 {
		return 0
	}
	i := sort.SearchFloat64s(axis, v)
	switch {
	case i == 0:
		i = 1
	case i >= n:
		i = n - 1
	}
	return float64(i-1) + (v-axis[i-1])/(axis[i]-axis[i-1])
}

package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Grid is a scalar field on a longitude/latitude mesh.
type Grid struct {
	// Name is a short variable name such as "msl". Optional.
	Name string

	// Units of the values, e.g. "hPa". Optional.
	Units string

	// Lon holds one longitude per column, strictly increasing.
	Lon []float64

	// Lat holds one latitude per row, strictly increasing.
	Lat []float64

	// Values is indexed [row][col]. NaN marks a missing cell.
	Values [][]float64

	// Source is the path the grid was loaded from, if any.
	Source string
}

// Rows returns the number of latitude rows.
func (g *Grid) Rows() int { return len(g.Lat) }

// Cols returns the number of longitude columns.
func (g *Grid) Cols() int { return len(g.Lon) }

// Validate checks that the values match the axes and the axes increase.
func (g *Grid) Validate() error {
	if len(g.Lon) == 0 || len(g.Lat) == 0 {
		return fmt.Errorf("invalid grid: empty axis (lon %d, lat %d)", len(g.Lon), len(g.Lat))
	}
	if len(g.Values) != len(g.Lat) {
		return fmt.Errorf("invalid grid: %d rows but %d latitudes", len(g.Values), len(g.Lat))
	}
	for r, row := range g.Values {
		if len(row) != len(g.Lon) {
			return fmt.Errorf("invalid grid: row %d has %d values but %d longitudes", r, len(row), len(g.Lon))
		}
	}
	for i := 1; i < len(g.Lon); i++ {
		if !(g.Lon[i] > g.Lon[i-1]) {
			return fmt.Errorf("invalid grid: longitude not strictly increasing at index %d", i)
		}
	}
	for i := 1; i < len(g.Lat); i++ {
		if !(g.Lat[i] > g.Lat[i-1]) {
			return fmt.Errorf("invalid grid: latitude not strictly increasing at index %d", i)
		}
	}
	return nil
}

// defined returns every non-missing value in row-major order.
func (g *Grid) defined() []float64 {
	out := make([]float64, 0, g.Rows()*g.Cols())
	for _, row := range g.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// GridInfo summarises a grid without returning its values.
type GridInfo struct {
	Name   string `json:"name,omitempty"`
	Units  string `json:"units,omitempty"`
	Source string `json:"source,omitempty"`

	Rows int `json:"rows"`
	Cols int `json:"cols"`

	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`

	// ValueMin, ValueMax, and ValueMean cover defined cells only. They are
	// zero when every cell is missing.
	ValueMin  float64 `json:"value_min"`
	ValueMax  float64 `json:"value_max"`
	ValueMean float64 `json:"value_mean"`

	// Missing counts cells without a value.
	Missing int `json:"missing"`

	// Global is true when longitudes lie in [0, 360) and span at least 340°,
	// i.e. the grid can be searched in periodic mode.
	Global bool `json:"global"`
}

// Describe returns summary information about g.
func Describe(g *Grid) *GridInfo {
	info := &GridInfo{
		Name:   g.Name,
		Units:  g.Units,
		Source: g.Source,
		Rows:   g.Rows(),
		Cols:   g.Cols(),
		LonMin: g.Lon[0],
		LonMax: g.Lon[len(g.Lon)-1],
		LatMin: g.Lat[0],
		LatMax: g.Lat[len(g.Lat)-1],
	}

	vals := g.defined()
	info.Missing = info.Rows*info.Cols - len(vals)
	if len(vals) > 0 {
		info.ValueMin = floats.Min(vals)
		info.ValueMax = floats.Max(vals)
		info.ValueMean = stat.Mean(vals, nil)
	}

	info.Global = info.LonMin >= 0 && info.LonMax < 360 && info.LonMax-info.LonMin >= 340
	return info
}

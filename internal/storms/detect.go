package storms

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultLevels is the number of thresholds in one sweep.
	DefaultLevels = 200

	// DefaultMinPixels is the recommended minimum region size.
	DefaultMinPixels = 9

	// seamTolerance absorbs rounding in centroids of systems sitting exactly
	// on the 0/360° seam, so the system is reported once.
	seamTolerance = 1e-9
)

// Params controls a detection run.
type Params struct {
	// MinPixels is the smallest region, in grid cells, that can be accepted.
	MinPixels int

	// Polarity selects minima (Cyclonic) or maxima (Anticyclonic).
	Polarity Polarity

	// Periodic treats the grid as global and periodic in longitude.
	// Longitudes must then lie in [0, 360).
	Periodic bool

	// Levels is the number of sweep thresholds. Zero means DefaultLevels.
	Levels int

	// WrapDegrees is the longitude band copied across the seam in periodic
	// mode. Zero means DefaultWrapDegrees.
	WrapDegrees float64
}

// Storm is one detected system.
type Storm struct {
	// Lon and Lat are the value-weighted centroid of the accepted region.
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`

	// Value is the interior extremum of the region: the minimum for cyclones,
	// the maximum for anticyclones. This is the amplitude reported by
	// Result.Amplitudes.
	Value float64 `json:"value"`

	// Amplitude is how far the extremum stands out from the mean of the
	// region boundary. Always non-negative.
	Amplitude float64 `json:"amplitude"`

	// Pixels is the number of cells in the accepted region.
	Pixels int `json:"pixels"`

	// Level is the sweep threshold at which the region was accepted.
	Level float64 `json:"level"`

	// Row and Col are the fractional centroid indices in the input grid.
	// Col may fall slightly outside [0, cols-1] in periodic mode.
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// Result holds the storms found by one detection run, in discovery order.
type Result struct {
	Polarity Polarity `json:"polarity"`
	Storms   []Storm  `json:"storms"`

	// Levels and Spacing describe the sweep. Spacing is zero when the field
	// was degenerate and no sweep ran.
	Levels  int     `json:"levels"`
	Spacing float64 `json:"spacing"`

	// Min and Max are the value range over defined cells.
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Lons returns the centroid longitudes in discovery order.
func (r *Result) Lons() []float64 {
	out := make([]float64, len(r.Storms))
	for i, s := range r.Storms {
		out[i] = s.Lon
	}
	return out
}

// Lats returns the centroid latitudes in discovery order.
func (r *Result) Lats() []float64 {
	out := make([]float64, len(r.Storms))
	for i, s := range r.Storms {
		out[i] = s.Lat
	}
	return out
}

// Amplitudes returns the raw interior extremum of each storm in discovery
// order. Use Storm.Amplitude for the extremum-versus-surround difference.
func (r *Result) Amplitudes() []float64 {
	out := make([]float64, len(r.Storms))
	for i, s := range r.Storms {
		out[i] = s.Value
	}
	return out
}

// Detect finds closed systems in a row-major field laid out on the given axes.
//
// Parameters:
//   - values: Field values indexed [lat][lon]. NaN marks missing cells.
//     The slice is copied; the caller's data is never modified.
//   - lon: Longitude of each column, strictly increasing.
//   - lat: Latitude of each row, strictly increasing.
//   - p: Detection parameters.
//
// Returns:
//   - *Result: Detected storms, possibly empty.
//   - error: ErrInvalidGeometry or ErrInvalidParameter (wrapped) when the
//     inputs are unusable. No partial result is returned with an error.
//
// A field with no defined cells or no dynamic range yields an empty result
// and a nil error.
func Detect(values [][]float64, lon, lat []float64, p Params) (*Result, error) {
	if len(values) != len(lat) {
		return nil, fmt.Errorf("%w: field has %d rows but %d latitudes", ErrInvalidGeometry, len(values), len(lat))
	}
	f, err := NewField(values)
	if err != nil {
		return nil, err
	}
	return DetectField(f, lon, lat, p)
}

// DetectField runs detection on an already-built Field.
//
// In non-periodic mode f itself is the working buffer and is left with the
// interiors of accepted systems erased. Pass f.Clone() to keep the original.
// In periodic mode a padded copy is built and f is left untouched.
func DetectField(f *Field, lon, lat []float64, p Params) (*Result, error) {
	if err := checkGeometry(f, lon, lat); err != nil {
		return nil, err
	}
	p, err := p.withDefaults()
	if err != nil {
		return nil, err
	}

	d := &detector{
		field:  f,
		lon:    lon,
		lat:    lat,
		params: p,
	}
	if p.Periodic {
		if err := checkGlobalLongitudes(lon); err != nil {
			return nil, err
		}
		d.field, d.lon, d.offset = padPeriodic(f, lon, p.WrapDegrees)
	}

	return d.sweep(), nil
}

func (p Params) withDefaults() (Params, error) {
	if p.MinPixels < 1 {
		return p, fmt.Errorf("%w: min pixels must be at least 1, got %d", ErrInvalidParameter, p.MinPixels)
	}
	if p.Polarity != Cyclonic && p.Polarity != Anticyclonic {
		return p, fmt.Errorf("%w: unknown polarity %d", ErrInvalidParameter, int(p.Polarity))
	}
	if p.Levels == 0 {
		p.Levels = DefaultLevels
	}
	if p.Levels < 2 {
		return p, fmt.Errorf("%w: need at least 2 sweep levels, got %d", ErrInvalidParameter, p.Levels)
	}
	if p.WrapDegrees == 0 {
		p.WrapDegrees = DefaultWrapDegrees
	}
	if p.WrapDegrees < 0 || p.WrapDegrees >= 180 {
		return p, fmt.Errorf("%w: wrap width must be in (0, 180), got %g", ErrInvalidParameter, p.WrapDegrees)
	}
	return p, nil
}

func checkGeometry(f *Field, lon, lat []float64) error {
	if f == nil {
		return fmt.Errorf("%w: nil field", ErrInvalidGeometry)
	}
	if f.Rows != len(lat) || f.Cols != len(lon) {
		return fmt.Errorf("%w: field is %dx%d but axes are %dx%d", ErrInvalidGeometry, f.Rows, f.Cols, len(lat), len(lon))
	}
	if err := checkIncreasing("longitude", lon); err != nil {
		return err
	}
	return checkIncreasing("latitude", lat)
}

func checkIncreasing(name string, axis []float64) error {
	if len(axis) == 0 {
		return fmt.Errorf("%w: empty %s axis", ErrInvalidGeometry, name)
	}
	for i := 1; i < len(axis); i++ {
		if !(axis[i] > axis[i-1]) {
			return fmt.Errorf("%w: %s axis not strictly increasing at index %d", ErrInvalidGeometry, name, i)
		}
	}
	return nil
}

// detector carries the state of one detection run. The field is owned
// exclusively by the run and mutated as systems are accepted.
type detector struct {
	field  *Field
	lon    []float64
	lat    []float64
	params Params

	// offset is the working column of input column 0 (non-zero when padded).
	offset int

	spacing float64
	result  Result
}

// sweep walks the levels from least to most selective and collects storms.
func (d *detector) sweep() *Result {
	d.result = Result{
		Polarity: d.params.Polarity,
		Storms:   make([]Storm, 0),
		Levels:   d.params.Levels,
	}

	lo, hi, ok := d.field.Range()
	if !ok {
		return &d.result
	}
	d.result.Min, d.result.Max = lo, hi
	if lo == hi {
		return &d.result
	}

	levels := floats.Span(make([]float64, d.params.Levels), lo, hi)
	if d.params.Polarity == Anticyclonic {
		floats.Reverse(levels)
	}
	d.spacing = math.Abs(levels[1] - levels[0])
	d.result.Spacing = d.spacing

	lab := newLabeler(d.field)
	for _, level := range levels {
		pass := func(v float64) bool { return d.params.Polarity.passes(v, level) }
		for _, reg := range lab.label(pass) {
			d.consider(lab, reg, level)
		}
	}

	return &d.result
}

// consider applies the acceptance tests to one region and, on success,
// records the storm and erases the region interior.
func (d *detector) consider(lab *labeler, reg *region, level float64) {
	if len(reg.cells) < d.params.MinPixels {
		return
	}

	lab.erode(reg)
	if len(reg.interior) == 0 {
		return
	}

	inner := d.values(reg.interior)
	outer := d.values(reg.exterior)

	var extremum, amplitude float64
	switch d.params.Polarity {
	case Anticyclonic:
		extremum = floats.Max(inner)
		if !(extremum > floats.Max(outer)) {
			return
		}
		amplitude = extremum - stat.Mean(outer, nil)
	default:
		extremum = floats.Min(inner)
		if !(extremum < floats.Min(outer)) {
			return
		}
		amplitude = stat.Mean(outer, nil) - extremum
	}
	if amplitude < d.spacing {
		return
	}

	row, col := d.centroid(reg)
	lon := interpAxis(col, d.lon)
	lat := interpAxis(row, d.lat)

	for _, p := range reg.interior {
		d.field.Erase(p.Row, p.Col)
	}

	lon, keep := d.keepLongitude(lon)
	if !keep || math.IsNaN(lat) {
		return
	}

	d.result.Storms = append(d.result.Storms, Storm{
		Lon:       lon,
		Lat:       lat,
		Value:     extremum,
		Amplitude: amplitude,
		Pixels:    len(reg.cells),
		Level:     level,
		Row:       row,
		Col:       col - float64(d.offset),
	})
}

func (d *detector) values(cells []cell) []float64 {
	out := make([]float64, 0, len(cells))
	for _, p := range cells {
		if v, ok := d.field.At(p.Row, p.Col); ok {
			out = append(out, v)
		}
	}
	return out
}

// centroid returns the value-weighted centre of mass of the region in
// fractional (row, col) working indices. Undefined cells weigh nothing.
//
// Offsets are accumulated relative to the first cell, so two periodic copies
// of one system produce centroids that differ by exactly their column shift.
// A zero total weight yields NaN.
func (d *detector) centroid(reg *region) (float64, float64) {
	anchor := reg.cells[0]
	var mass, sumRow, sumCol float64
	for _, p := range reg.cells {
		v, ok := d.field.At(p.Row, p.Col)
		if !ok {
			continue
		}
		mass += v
		sumRow += v * float64(p.Row-anchor.Row)
		sumCol += v * float64(p.Col-anchor.Col)
	}
	if mass == 0 {
		return math.NaN(), math.NaN()
	}
	return float64(anchor.Row) + sumRow/mass, float64(anchor.Col) + sumCol/mass
}

// keepLongitude filters centroids outside the global domain.
//
// Outside periodic mode every centroid outside [0, 360] is dropped. In
// periodic mode the window is [0, 360) so a system copied across the seam is
// kept exactly once; centroids within seamTolerance below zero are clamped.
func (d *detector) keepLongitude(lon float64) (float64, bool) {
	if math.IsNaN(lon) {
		return lon, false
	}
	if !d.params.Periodic {
		return lon, lon >= 0 && lon <= 360
	}
	if lon < -seamTolerance || lon >= 360-seamTolerance {
		return lon, false
	}
	if lon < 0 {
		lon = 0
	}
	return lon, true
}

// interpAxis maps a fractional index onto an axis by linear interpolation,
// clamping to the end values outside [0, len-1].
func interpAxis(x float64, axis []float64) float64 {
	n := len(axis)
	switch {
	case math.IsNaN(x):
		return math.NaN()
	case x <= 0:
		return axis[0]
	case x >= float64(n-1):
		return axis[n-1]
	}
	i := int(math.Floor(x))
	t := x - float64(i)
	return axis[i] + t*(axis[i+1]-axis[i])
}

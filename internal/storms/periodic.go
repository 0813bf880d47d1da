package storms

import "fmt"

// DefaultWrapDegrees is the longitude band copied across the seam in
// periodic mode.
const DefaultWrapDegrees = 20.0

// padPeriodic extends a global field across the 0/360° seam.
//
// The columns whose longitude is at least 360-dl are prepended (shifted by
// -360) and the columns before the last one whose longitude is at most dl are
// appended (shifted by +360). Validity travels with the values. The returned
// offset is the padded column index of original column 0.
//
// Longitudes must already lie in [0, 360); callers validate that.
func padPeriodic(f *Field, lon []float64, dl float64) (*Field, []float64, int) {
	iEast := len(lon)
	for i, l := range lon {
		if l >= 360-dl {
			iEast = i
			break
		}
	}
	iWest := 0
	for i := len(lon) - 1; i >= 0; i-- {
		if lon[i] <= dl {
			iWest = i
			break
		}
	}

	east := len(lon) - iEast
	cols := east + len(lon) + iWest

	padLon := make([]float64, 0, cols)
	for _, l := range lon[iEast:] {
		padLon = append(padLon, l-360)
	}
	padLon = append(padLon, lon...)
	for _, l := range lon[:iWest] {
		padLon = append(padLon, l+360)
	}

	out := newEmptyField(f.Rows, cols)
	for r := 0; r < f.Rows; r++ {
		src := r * f.Cols
		dst := r * cols
		copy(out.values[dst:dst+east], f.values[src+iEast:src+f.Cols])
		copy(out.valid[dst:dst+east], f.valid[src+iEast:src+f.Cols])
		copy(out.values[dst+east:dst+east+f.Cols], f.values[src:src+f.Cols])
		copy(out.valid[dst+east:dst+east+f.Cols], f.valid[src:src+f.Cols])
		copy(out.values[dst+east+f.Cols:dst+cols], f.values[src:src+iWest])
		copy(out.valid[dst+east+f.Cols:dst+cols], f.valid[src:src+iWest])
	}

	return out, padLon, east
}

// checkGlobalLongitudes enforces the [0, 360) precondition of periodic mode.
func checkGlobalLongitudes(lon []float64) error {
	for i, l := range lon {
		if l < 0 || l >= 360 {
			return fmt.Errorf("%w: periodic mode needs longitudes in [0, 360), lon[%d] = %g", ErrInvalidParameter, i, l)
		}
	}
	return nil
}

package grid

import (
	"fmt"
	"math"
)

const (
	// earthRadiusKm is the IUGG mean Earth radius.
	earthRadiusKm = 6371.0088

	// kmPerDegreeLat is the length of one degree of latitude.
	kmPerDegreeLat = 111.325
)

// DistanceResult contains the separation of two points on the sphere.
type DistanceResult struct {
	DistanceKm      float64 `json:"distance_km"`
	DistanceDegrees float64 `json:"distance_degrees"`
	DeltaLon        float64 `json:"delta_lon"`
	DeltaLat        float64 `json:"delta_lat"`
	BearingDegrees  float64 `json:"bearing_degrees"`
}

// MeasureDistance computes the great-circle distance between two points.
//
// DeltaLon is wrapped into [-180, 180] so points either side of the 0/360°
// seam are close. BearingDegrees is the initial bearing from the first point,
// clockwise from north in [0, 360). DistanceDegrees expresses the distance in
// degrees of latitude.
func MeasureDistance(lon1, lat1, lon2, lat2 float64) (*DistanceResult, error) {
	for _, lat := range []float64{lat1, lat2} {
		if lat < -90 || lat > 90 || math.IsNaN(lat) {
			return nil, fmt.Errorf("latitude %g outside [-90, 90]", lat)
		}
	}

	dLon := math.Mod(lon2-lon1, 360)
	if dLon > 180 {
		dLon -= 360
	} else if dLon < -180 {
		dLon += 360
	}

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := phi2 - phi1
	dLambda := dLon * math.Pi / 180

	// Haversine
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	central := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	km := earthRadiusKm * central

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	bearing := math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)

	return &DistanceResult{
		DistanceKm:      math.Round(km*100) / 100,
		DistanceDegrees: math.Round(km/kmPerDegreeLat*1000) / 1000,
		DeltaLon:        dLon,
		DeltaLat:        lat2 - lat1,
		BearingDegrees:  math.Round(bearing*10) / 10,
	}, nil
}

package geo

import "math"

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3958.8

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// DistanceMiles returns the haversine distance between two coordinates.
func DistanceMiles(origin, point Coordinate) float64 {
	dLat := toRadians(point.Lat - origin.Lat)
	dLng := toRadians(point.Lng - origin.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	a := sinLat*sinLat + math.Cos(toRadians(origin.Lat))*math.Cos(toRadians(point.Lat))*sinLng*sinLng

	// Rounding can push a slightly outside [0,1] for identical or antipodal points.
	a = math.Min(1, math.Max(0, a))

	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// KmPerMile converts statute miles to kilometers
const KmPerMile = 1.609344

// Point is a WGS84 coordinate in decimal degrees
type Point struct {
	Lat float64
	Lng float64
}

// DistanceKm returns the haversine great-circle distance between a and b.
// Out of range coordinates are the caller's problem.
func DistanceKm(a, b Point) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// KmToMiles converts kilometers to statute miles
func KmToMiles(km float64) float64 {
	return km / KmPerMile
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

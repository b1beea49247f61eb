package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns the degree offsets (latDeg, lonDeg) covering radiusKm
// around lat.
func BoundingBox(lat, radiusKm float64) (latDeg, lonDeg float64) {
	latDeg = radiusKm / earthRadiusKm * (180 / math.Pi)
	cos := math.Cos(toRadians(lat))
	if cos < 1e-6 {
		return latDeg, 180
	}
	return latDeg, math.Min(latDeg/cos, 180)
}

// ValidCoordinate reports whether lat/lon lie inside WGS84 bounds.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

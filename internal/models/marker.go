package models

// Marker is a display-ready map point. Exactly one marker of a MarkerSet is
// the origin of the proximity search.
type Marker struct {
	Label      string  `json:"label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	IsOrigin   bool    `json:"isOrigin"`
	DistanceKm float64 `json:"distanceKm"`
}

type MarkerSet []Marker

// Origin returns the trailing origin marker.
func (s MarkerSet) Origin() (Marker, bool) {
	if len(s) == 0 || !s[len(s)-1].IsOrigin {
		return Marker{}, false
	}
	return s[len(s)-1], true
}

// Stations returns the markers placed for nearby stations, without the origin.
func (s MarkerSet) Stations() []Marker {
	if _, ok := s.Origin(); ok {
		return s[:len(s)-1]
	}
	return s
}

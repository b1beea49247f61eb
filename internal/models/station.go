package models

import "context"

type Source string

const (
	SourceTransport Source = "TRANSPORT"
	SourceOffline   Source = "OFFLINE"
)

// Coordinate is a latitude-like x and longitude-like y. Either component may
// be missing when the directory has no position for a station.
type Coordinate struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func NewCoordinate(x, y float64) Coordinate {
	return Coordinate{X: &x, Y: &y}
}

// Resolved reports whether both components are present.
func (c Coordinate) Resolved() bool {
	return c.X != nil && c.Y != nil
}

type Station struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
	Distance   *float64   `json:"distance,omitempty"`
	Source     Source     `json:"source,omitempty"`
}

// StationDirectory is the transit data provider queried by name or by position.
type StationDirectory interface {
	SearchByName(ctx context.Context, text string) ([]Station, error)
	SearchByLocation(ctx context.Context, x, y float64) ([]Station, error)
}

package search

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/directory"
	"github.com/bbernstein/stationmap/internal/geo"
	"github.com/bbernstein/stationmap/internal/models"
)

// ProximitySearch turns a selected position into a marker set of nearby
// stations. Unlike suggestions, the displayed markers are only replaced once a
// new set has been built successfully.
type ProximitySearch struct {
	directory models.StationDirectory
	markers   *Observable[models.Marker]

	mu     sync.Mutex
	issued uint64
	state  State
}

func NewProximitySearch(dir models.StationDirectory) *ProximitySearch {
	return &ProximitySearch{
		directory: dir,
		markers:   NewObservable[models.Marker](),
	}
}

// FindNearby looks up the stations around coord and commits the resulting
// marker set. A set built by a call that has since been superseded is returned
// to its caller but not committed.
func (p *ProximitySearch) FindNearby(ctx context.Context, coord models.Coordinate) (models.MarkerSet, error) {
	return p.findNearby(ctx, "", coord)
}

// FindNearbyStation runs FindNearby for a station chosen by the user. The
// station needs a name and a resolved coordinate.
func (p *ProximitySearch) FindNearbyStation(ctx context.Context, station models.Station) (models.MarkerSet, error) {
	if station.Name == "" {
		return nil, newInvalidSelection("", "station has no name")
	}
	return p.findNearby(ctx, station.Name, station.Coordinate)
}

func (p *ProximitySearch) findNearby(ctx context.Context, name string, coord models.Coordinate) (models.MarkerSet, error) {
	if !coord.Resolved() {
		return nil, newInvalidSelection(name, "coordinate not resolved")
	}
	x, y := *coord.X, *coord.Y
	if !geo.ValidCoordinate(x, y) {
		return nil, newInvalidSelection(name, "coordinate out of range")
	}

	p.mu.Lock()
	p.issued++
	tag := p.issued
	p.state = StateSearching
	p.mu.Unlock()

	stations, err := p.directory.SearchByLocation(ctx, x, y)
	if err != nil {
		p.mu.Lock()
		if tag == p.issued {
			p.state = StateFailed
		}
		p.mu.Unlock()

		label := strconv.FormatFloat(x, 'f', -1, 64) + "," + strconv.FormatFloat(y, 'f', -1, 64)
		log.Debug().Err(err).Str("station", name).Msg("Proximity lookup failed")
		return nil, asLookupFailed(directory.OpSearchByLocation, label, err)
	}

	set := BuildMarkerSet(x, y, stations)

	p.mu.Lock()
	defer p.mu.Unlock()
	if tag != p.issued {
		log.Debug().Uint64("tag", tag).Uint64("latest", p.issued).Msg("Not committing superseded marker set")
		return set, nil
	}
	p.markers.Replace(set)
	p.state = StatePopulated
	return set, nil
}

// BuildMarkerSet places one marker per positioned station, in directory order,
// and appends the origin marker at (x, y). Stations without a resolved
// coordinate are left out.
func BuildMarkerSet(x, y float64, stations []models.Station) models.MarkerSet {
	set := make(models.MarkerSet, 0, len(stations)+1)
	for _, station := range stations {
		if !station.Coordinate.Resolved() {
			log.Trace().Str("station", station.Name).Msg("Skipping station without position")
			continue
		}
		sx, sy := *station.Coordinate.X, *station.Coordinate.Y
		set = append(set, models.Marker{
			Label:      station.Name,
			X:          sx,
			Y:          sy,
			DistanceKm: geo.DistanceKm(x, y, sx, sy),
		})
	}
	return append(set, models.Marker{X: x, Y: y, IsOrigin: true})
}

// List exposes the committed marker set for observers.
func (p *ProximitySearch) List() *Observable[models.Marker] {
	return p.markers
}

func (p *ProximitySearch) Markers() models.MarkerSet {
	return p.markers.Items()
}

func (p *ProximitySearch) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// reset returns the component to idle without touching the committed markers.
func (p *ProximitySearch) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateSearching {
		p.state = StateIdle
	}
}

package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/stationmap/internal/directory"
	"github.com/bbernstein/stationmap/internal/models"
)

func TestFindNearby_ZugScenario(t *testing.T) {
	t.Parallel()

	dir := new(MockDirectory)
	dir.On("SearchByLocation", mock.Anything, 47.17, 8.51).
		Return([]models.Station{{Name: "Zug", Coordinate: models.NewCoordinate(47.17, 8.51)}}, nil)

	search := NewProximitySearch(dir)
	set, err := search.FindNearbyStation(context.Background(), zugStations()[0])
	require.NoError(t, err)

	want := models.MarkerSet{
		{Label: "Zug", X: 47.17, Y: 8.51},
		{X: 47.17, Y: 8.51, IsOrigin: true},
	}
	assert.Equal(t, want, set)
	assert.Equal(t, want, search.Markers())
	assert.Equal(t, StatePopulated, search.State())
}

func TestFindNearby_OriginIsAlwaysLast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stations []models.Station
		wantLen  int
	}{
		{name: "no stations", stations: []models.Station{}, wantLen: 1},
		{name: "nil result", stations: nil, wantLen: 1},
		{
			name: "several stations",
			stations: []models.Station{
				{Name: "Zug", Coordinate: models.NewCoordinate(47.17, 8.51)},
				{Name: "Zug, Metalli/Bahnhof", Coordinate: models.NewCoordinate(47.1727, 8.5155)},
				{Name: "Zug Schutzengel", Coordinate: models.NewCoordinate(47.1745, 8.5201)},
			},
			wantLen: 4,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := new(MockDirectory)
			dir.On("SearchByLocation", mock.Anything, 47.17, 8.51).Return(tt.stations, nil)

			set, err := NewProximitySearch(dir).FindNearby(context.Background(), models.NewCoordinate(47.17, 8.51))
			require.NoError(t, err)
			require.Len(t, set, tt.wantLen)

			origin, ok := set.Origin()
			require.True(t, ok)
			assert.Equal(t, 47.17, origin.X)
			assert.Equal(t, 8.51, origin.Y)
			for _, m := range set.Stations() {
				assert.False(t, m.IsOrigin)
			}
		})
	}
}

func TestFindNearby_SkipsStationsWithoutPosition(t *testing.T) {
	t.Parallel()

	dir := new(MockDirectory)
	dir.On("SearchByLocation", mock.Anything, 47.17, 8.51).Return([]models.Station{
		{Name: "Zugerberg"},
		{Name: "Zug", Coordinate: models.NewCoordinate(47.17, 8.51)},
		{Name: "Half", Coordinate: models.Coordinate{X: floatPtr(47.2)}},
		{Name: "Zug Postplatz", Coordinate: models.NewCoordinate(47.1664, 8.5163)},
	}, nil)

	set, err := NewProximitySearch(dir).FindNearby(context.Background(), models.NewCoordinate(47.17, 8.51))
	require.NoError(t, err)

	require.Len(t, set, 3)
	assert.Equal(t, "Zug", set[0].Label)
	assert.Equal(t, "Zug Postplatz", set[1].Label)
	assert.InDelta(t, 0.62, set[1].DistanceKm, 0.01)
	assert.True(t, set[2].IsOrigin)
}

func TestFindNearby_RejectsUnresolvedSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		station models.Station
	}{
		{name: "no coordinate", station: models.Station{Name: "Zugerberg"}},
		{name: "missing y", station: models.Station{Name: "Zug", Coordinate: models.Coordinate{X: floatPtr(47.17)}}},
		{name: "empty name", station: models.Station{Coordinate: models.NewCoordinate(47.17, 8.51)}},
		{name: "out of range", station: models.Station{Name: "Nowhere", Coordinate: models.NewCoordinate(123, 8.51)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := new(MockDirectory)
			search := NewProximitySearch(dir)

			set, err := search.FindNearbyStation(context.Background(), tt.station)
			require.Error(t, err)
			assert.Nil(t, set)
			assert.ErrorIs(t, err, ErrInvalidSelection)
			assert.False(t, errors.Is(err, directory.ErrLookupFailed))

			var selErr *InvalidSelectionError
			assert.True(t, errors.As(err, &selErr))
			dir.AssertNotCalled(t, "SearchByLocation", mock.Anything, mock.Anything, mock.Anything)
			assert.Equal(t, StateIdle, search.State())
		})
	}
}

func TestFindNearby_FailureKeepsPreviousMarkers(t *testing.T) {
	t.Parallel()

	dir := new(MockDirectory)
	dir.On("SearchByLocation", mock.Anything, 47.17, 8.51).
		Return([]models.Station{{Name: "Zug", Coordinate: models.NewCoordinate(47.17, 8.51)}}, nil)
	dir.On("SearchByLocation", mock.Anything, 46.948832, 7.439136).
		Return(nil, directory.NewLookupFailedError(directory.OpSearchByLocation, "46.948832,7.439136", errors.New("dial tcp: i/o timeout")))

	search := NewProximitySearch(dir)
	ctx := context.Background()

	previous, err := search.FindNearby(ctx, models.NewCoordinate(47.17, 8.51))
	require.NoError(t, err)
	version := search.List().Version()

	set, err := search.FindNearby(ctx, models.NewCoordinate(46.948832, 7.439136))
	require.Error(t, err)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, directory.ErrLookupFailed)

	assert.Equal(t, previous, search.Markers())
	assert.Equal(t, version, search.List().Version())
	assert.Equal(t, StateFailed, search.State())
}

func TestFindNearby_SupersededResultIsNotCommitted(t *testing.T) {
	t.Parallel()

	gated := newGatedDirectory()
	gated.respond("north", []models.Station{{Name: "Zug", Coordinate: models.NewCoordinate(47.17, 8.51)}}, nil)
	gated.respond("south", []models.Station{{Name: "Bern", Coordinate: models.NewCoordinate(46.948832, 7.439136)}}, nil)

	search := NewProximitySearch(gated)
	ctx := context.Background()

	type result struct {
		set models.MarkerSet
		err error
	}
	first := make(chan result, 1)
	go func() {
		set, err := search.FindNearby(ctx, models.NewCoordinate(47.17, 8.51))
		first <- result{set, err}
	}()
	require.Equal(t, "north", <-gated.started)

	second := make(chan result, 1)
	go func() {
		set, err := search.FindNearby(ctx, models.NewCoordinate(46.948832, 7.439136))
		second <- result{set, err}
	}()
	require.Equal(t, "south", <-gated.started)

	gated.open("south")
	latest := <-second
	require.NoError(t, latest.err)
	gated.open("north")
	stale := <-first
	require.NoError(t, stale.err)
	assert.Equal(t, "Zug", stale.set[0].Label)

	assert.Equal(t, latest.set, search.Markers())
	assert.Equal(t, "Bern", search.Markers()[0].Label)
}

func TestBuildMarkerSet(t *testing.T) {
	t.Parallel()

	set := BuildMarkerSet(47.17, 8.51, nil)
	assert.Equal(t, models.MarkerSet{{X: 47.17, Y: 8.51, IsOrigin: true}}, set)
}

package search

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/bbernstein/stationmap/internal/models"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) SearchByName(ctx context.Context, text string) ([]models.Station, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Station), args.Error(1)
}

func (m *MockDirectory) SearchByLocation(ctx context.Context, x, y float64) ([]models.Station, error) {
	args := m.Called(ctx, x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Station), args.Error(1)
}

// gatedDirectory holds every call until its gate is opened, so tests can
// control the order in which responses arrive.
type gatedDirectory struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	names   map[string][]models.Station
	errs    map[string]error
	started chan string
}

func newGatedDirectory() *gatedDirectory {
	return &gatedDirectory{
		gates:   make(map[string]chan struct{}),
		names:   make(map[string][]models.Station),
		errs:    make(map[string]error),
		started: make(chan string, 10),
	}
}

func (g *gatedDirectory) respond(key string, stations []models.Station, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gates[key] = make(chan struct{})
	g.names[key] = stations
	g.errs[key] = err
}

func (g *gatedDirectory) open(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[key])
}

func (g *gatedDirectory) wait(ctx context.Context, key string) ([]models.Station, error) {
	g.mu.Lock()
	gate := g.gates[key]
	g.mu.Unlock()

	g.started <- key
	select {
	case <-gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.names[key], g.errs[key]
}

func (g *gatedDirectory) SearchByName(ctx context.Context, text string) ([]models.Station, error) {
	return g.wait(ctx, text)
}

func (g *gatedDirectory) SearchByLocation(ctx context.Context, x, _ float64) ([]models.Station, error) {
	if x > 47 {
		return g.wait(ctx, "north")
	}
	return g.wait(ctx, "south")
}

func floatPtr(f float64) *float64 {
	return &f
}

func zugStations() []models.Station {
	return []models.Station{
		{ID: "8502204", Name: "Zug", Coordinate: models.NewCoordinate(47.17, 8.51)},
		{ID: "8515440", Name: "Zugerberg"},
	}
}

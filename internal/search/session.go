package search

import (
	"context"
	"sync"

	"github.com/bbernstein/stationmap/internal/models"
	"github.com/bbernstein/stationmap/internal/query"
)

// Session ties the suggestion list, the user's selection and the proximity
// search together for one user. The presentation layer calls it on text
// changes, selections and search requests, and observes the two lists.
type Session struct {
	Suggestions *SuggestionEngine
	Proximity   *ProximitySearch

	mu       sync.Mutex
	selected *models.Station
}

func NewSession(dir models.StationDirectory) *Session {
	return &Session{
		Suggestions: NewSuggestionEngine(dir),
		Proximity:   NewProximitySearch(dir),
	}
}

// CanSearch gates the search action for the text currently typed.
func (s *Session) CanSearch(text string) bool {
	return query.IsValidQuery(text)
}

// TextChanged refreshes suggestions for the edited text. Surrounding and
// repeated whitespace is collapsed first, so whitespace-only text clears the
// list without a directory call.
func (s *Session) TextChanged(ctx context.Context, text string) error {
	return s.Suggestions.RefreshSuggestions(ctx, query.Normalize(text))
}

// Select records station as the committed selection.
func (s *Session) Select(station models.Station) {
	s.mu.Lock()
	s.selected = &station
	s.mu.Unlock()

	s.Proximity.reset()
}

// SelectSuggestion selects the suggestion at index in the current list.
func (s *Session) SelectSuggestion(index int) (models.Station, error) {
	suggestions := s.Suggestions.Suggestions()
	if index < 0 || index >= len(suggestions) {
		return models.Station{}, newInvalidSelection("", "no suggestion at that position")
	}
	s.Select(suggestions[index])
	return suggestions[index], nil
}

func (s *Session) Selected() (models.Station, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return models.Station{}, false
	}
	return *s.selected, true
}

// SearchSelected runs a proximity search around the selected station.
func (s *Session) SearchSelected(ctx context.Context) (models.MarkerSet, error) {
	station, ok := s.Selected()
	if !ok {
		return nil, newInvalidSelection("", "no station selected")
	}
	return s.Proximity.FindNearbyStation(ctx, station)
}

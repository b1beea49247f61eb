package search

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/directory"
	"github.com/bbernstein/stationmap/internal/models"
)

// SuggestionEngine keeps the autocomplete list for one search session.
//
// Each call to RefreshSuggestions is tagged; a response whose tag is no longer
// the latest issued is dropped, so the list always reflects the most recently
// typed text even when directory responses arrive out of order.
type SuggestionEngine struct {
	directory models.StationDirectory
	list      *Observable[models.Station]

	mu     sync.Mutex
	query  string
	issued uint64
	state  State
}

func NewSuggestionEngine(dir models.StationDirectory) *SuggestionEngine {
	return &SuggestionEngine{
		directory: dir,
		list:      NewObservable[models.Station](),
	}
}

// RefreshSuggestions replaces the suggestion list with the directory's
// name-search results for text. The list is cleared before the lookup, so a
// failed lookup leaves it empty.
func (e *SuggestionEngine) RefreshSuggestions(ctx context.Context, text string) error {
	e.mu.Lock()
	e.issued++
	tag := e.issued
	e.query = text
	e.list.Clear()
	if text == "" {
		e.state = StateIdle
		e.mu.Unlock()
		return nil
	}
	e.state = StateSearching
	e.mu.Unlock()

	stations, err := e.directory.SearchByName(ctx, text)

	e.mu.Lock()
	defer e.mu.Unlock()

	if tag != e.issued {
		log.Debug().
			Str("query", text).
			Uint64("tag", tag).
			Uint64("latest", e.issued).
			Msg("Dropping superseded suggestion response")
		return nil
	}

	if err != nil {
		e.state = StateFailed
		log.Debug().Err(err).Str("query", text).Msg("Suggestion lookup failed")
		return asLookupFailed(directory.OpSearchByName, text, err)
	}

	e.list.Replace(stations)
	e.state = StatePopulated
	log.Trace().Str("query", text).Int("suggestion_count", len(stations)).Msg("Suggestions refreshed")
	return nil
}

// List exposes the live suggestion list for observers.
func (e *SuggestionEngine) List() *Observable[models.Station] {
	return e.list
}

func (e *SuggestionEngine) Suggestions() []models.Station {
	return e.list.Items()
}

func (e *SuggestionEngine) Query() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query
}

func (e *SuggestionEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

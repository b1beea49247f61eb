package search

import (
	"errors"
	"fmt"

	"github.com/bbernstein/stationmap/internal/directory"
)

// ErrInvalidSelection matches every *InvalidSelectionError through errors.Is.
var ErrInvalidSelection = errors.New("invalid selection")

// InvalidSelectionError is returned when a proximity search is attempted
// for a selection without a usable position.
type InvalidSelectionError struct {
	Station string
	Reason  string
}

func (e *InvalidSelectionError) Error() string {
	if e.Station != "" {
		return fmt.Sprintf("invalid selection %q: %s", e.Station, e.Reason)
	}
	return fmt.Sprintf("invalid selection: %s", e.Reason)
}

func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

func newInvalidSelection(station, reason string) *InvalidSelectionError {
	return &InvalidSelectionError{Station: station, Reason: reason}
}

// asLookupFailed makes sure a directory error carries the LookupFailed
// classification, whatever StationDirectory implementation produced it.
func asLookupFailed(op, query string, err error) error {
	if errors.Is(err, directory.ErrLookupFailed) {
		return err
	}
	return directory.NewLookupFailedError(op, query, err)
}

package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/models"
	"github.com/bbernstein/stationmap/pkg/http/client"
)

const (
	locationsPath = "/v1/locations"

	OpSearchByName     = "searchByName"
	OpSearchByLocation = "searchByLocation"
)

// TransportDirectory looks stations up through the transport.opendata.ch
// locations endpoint.
type TransportDirectory struct {
	httpClient client.Interface
}

func NewTransportDirectory(httpClient client.Interface) *TransportDirectory {
	return &TransportDirectory{httpClient: httpClient}
}

// locationsResponse mirrors the JSON returned by /v1/locations. Coordinates
// and distances are pointers because the API sends null for unknown values.
type locationsResponse struct {
	Stations []struct {
		ID         *string `json:"id"`
		Name       *string `json:"name"`
		Coordinate *struct {
			Type string   `json:"type"`
			X    *float64 `json:"x"`
			Y    *float64 `json:"y"`
		} `json:"coordinate"`
		Distance *float64 `json:"distance"`
	} `json:"stations"`
}

func (d *TransportDirectory) SearchByName(ctx context.Context, text string) ([]models.Station, error) {
	query := url.Values{
		"query": {text},
		"type":  {"station"},
	}
	return d.fetch(ctx, OpSearchByName, text, query)
}

func (d *TransportDirectory) SearchByLocation(ctx context.Context, x, y float64) ([]models.Station, error) {
	xs := strconv.FormatFloat(x, 'f', -1, 64)
	ys := strconv.FormatFloat(y, 'f', -1, 64)
	query := url.Values{
		"x":    {xs},
		"y":    {ys},
		"type": {"station"},
	}
	return d.fetch(ctx, OpSearchByLocation, xs+","+ys, query)
}

func (d *TransportDirectory) fetch(ctx context.Context, op, label string, query url.Values) ([]models.Station, error) {
	log.Debug().Str("op", op).Str("query", label).Msg("Calling station directory")

	resp, err := d.httpClient.Get(ctx, locationsPath, query)
	if err != nil {
		return nil, NewLookupFailedError(op, label, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		lookupErr := NewLookupFailedError(op, label, nil)
		lookupErr.StatusCode = resp.StatusCode
		return nil, lookupErr
	}

	var body locationsResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, NewLookupFailedError(op, label, fmt.Errorf("decoding response: %w", err))
	}

	stations := make([]models.Station, 0, len(body.Stations))
	for _, s := range body.Stations {
		if s.Name == nil || *s.Name == "" {
			log.Trace().Str("op", op).Msg("Skipping nameless location")
			continue
		}

		station := models.Station{
			Name:     *s.Name,
			Distance: s.Distance,
			Source:   models.SourceTransport,
		}
		if s.ID != nil {
			station.ID = *s.ID
		}
		if s.Coordinate != nil {
			station.Coordinate = models.Coordinate{X: s.Coordinate.X, Y: s.Coordinate.Y}
		}
		stations = append(stations, station)
	}

	log.Debug().Str("op", op).Str("query", label).Int("station_count", len(stations)).Msg("Station directory responded")
	return stations, nil
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/api"
	"github.com/bbernstein/stationmap/internal/directory"
	"github.com/bbernstein/stationmap/internal/models"
	"github.com/bbernstein/stationmap/internal/query"
	"github.com/bbernstein/stationmap/internal/search"
)

type StationsHandler struct {
	directory models.StationDirectory
}

func NewStationsHandler(dir models.StationDirectory) *StationsHandler {
	return &StationsHandler{
		directory: dir,
	}
}

// HandleRequest serves one request with a fresh search session. Exactly one
// of validate, query, station or x/y selects the mode, in that order.
func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters
	session := search.NewSession(h.directory)

	if text, ok := params["validate"]; ok {
		return api.Success(api.NewValidationResponse(text, session.CanSearch(text)))
	}

	if text, ok := params["query"]; ok {
		return h.suggest(ctx, session, text)
	}

	if name, ok := params["station"]; ok {
		return h.nearbyStation(ctx, session, name)
	}

	if api.HasCoordinates(params) {
		coord, err := api.ParseCoordinates(params)
		if err != nil {
			var invalidCoordErr api.InvalidCoordinatesError
			var missingErr api.MissingParameterError
			switch {
			case errors.As(err, &invalidCoordErr), errors.As(err, &missingErr):
				return api.Error(err.Error(), http.StatusBadRequest)
			default:
				return api.Error("Invalid parameters", http.StatusBadRequest)
			}
		}

		markers, err := session.Proximity.FindNearby(ctx, coord)
		if err != nil {
			return errorResponse(err)
		}
		return api.Success(api.NewMarkersResponse("", markers))
	}

	return api.Error("Missing query or coordinates", http.StatusBadRequest)
}

func (h *StationsHandler) suggest(ctx context.Context, session *search.Session, text string) (events.APIGatewayProxyResponse, error) {
	normalized := query.Normalize(text)
	if normalized != "" && !session.CanSearch(normalized) {
		return api.Error("Invalid query", http.StatusBadRequest)
	}

	if err := session.TextChanged(ctx, normalized); err != nil {
		return errorResponse(err)
	}
	return api.Success(api.NewSuggestionsResponse(normalized, session.Suggestions.Suggestions()))
}

// nearbyStation selects the first suggestion for name and searches around it.
func (h *StationsHandler) nearbyStation(ctx context.Context, session *search.Session, name string) (events.APIGatewayProxyResponse, error) {
	normalized := query.Normalize(name)
	if !session.CanSearch(normalized) {
		return api.Error("Invalid query", http.StatusBadRequest)
	}

	if err := session.TextChanged(ctx, normalized); err != nil {
		return errorResponse(err)
	}

	selected, err := session.SelectSuggestion(0)
	if err != nil {
		return api.Error("Station not found", http.StatusNotFound)
	}

	markers, err := session.SearchSelected(ctx)
	if err != nil {
		return errorResponse(err)
	}
	return api.Success(api.NewMarkersResponse(selected.Name, markers))
}

func errorResponse(err error) (events.APIGatewayProxyResponse, error) {
	switch {
	case errors.Is(err, search.ErrInvalidSelection):
		return api.Error(err.Error(), http.StatusBadRequest)
	case errors.Is(err, directory.ErrLookupFailed):
		log.Error().Err(err).Msg("Station lookup failed")
		return api.Error("Station lookup failed", http.StatusBadGateway)
	default:
		log.Error().Err(err).Msg("Error handling station request")
		return api.Error("Internal Server Error", http.StatusInternalServerError)
	}
}

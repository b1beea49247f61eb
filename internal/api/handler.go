package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bbernstein/stationmap/internal/geo"
	"github.com/bbernstein/stationmap/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type SuggestionsResponse struct {
	APIResponse
	Query    string           `json:"query"`
	Stations []models.Station `json:"stations"`
}

type MarkersResponse struct {
	APIResponse
	Station string           `json:"station,omitempty"`
	Markers models.MarkerSet `json:"markers"`
}

type ValidationResponse struct {
	APIResponse
	Query string `json:"query"`
	Valid bool   `json:"valid"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewSuggestionsResponse(query string, stations []models.Station) *SuggestionsResponse {
	if stations == nil {
		stations = []models.Station{}
	}
	return &SuggestionsResponse{
		APIResponse: APIResponse{ResponseType: "suggestions"},
		Query:       query,
		Stations:    stations,
	}
}

// NewMarkersResponse wraps a marker set. station names the selection the
// markers were searched around, empty for a raw coordinate search.
func NewMarkersResponse(station string, markers models.MarkerSet) *MarkersResponse {
	if markers == nil {
		markers = models.MarkerSet{}
	}
	return &MarkersResponse{
		APIResponse: APIResponse{ResponseType: "markers"},
		Station:     station,
		Markers:     markers,
	}
}

func NewValidationResponse(query string, valid bool) *ValidationResponse {
	return &ValidationResponse{
		APIResponse: APIResponse{ResponseType: "validation"},
		Query:       query,
		Valid:       valid,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    responseHeaders(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    responseHeaders(),
		Body:       string(body),
	}, nil
}

func responseHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// HasCoordinates reports whether either coordinate parameter is present.
func HasCoordinates(params map[string]string) bool {
	_, hasX := params["x"]
	_, hasY := params["y"]
	return hasX || hasY
}

// ParseCoordinates reads the x (latitude) and y (longitude) parameters.
func ParseCoordinates(params map[string]string) (models.Coordinate, error) {
	xStr, hasX := params["x"]
	yStr, hasY := params["y"]

	if !hasX || !hasY {
		return models.Coordinate{}, MissingParameterError{Name: missingName(hasX)}
	}

	x, err := strconv.ParseFloat(xStr, 64)
	if err != nil {
		return models.Coordinate{}, err
	}

	y, err := strconv.ParseFloat(yStr, 64)
	if err != nil {
		return models.Coordinate{}, err
	}

	if !geo.ValidCoordinate(x, y) {
		return models.Coordinate{}, InvalidCoordinatesError{}
	}

	return models.NewCoordinate(x, y), nil
}

func missingName(hasX bool) string {
	if hasX {
		return "y"
	}
	return "x"
}

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}

type MissingParameterError struct {
	Name string
}

func (e MissingParameterError) Error() string {
	return "Missing parameter: " + e.Name
}

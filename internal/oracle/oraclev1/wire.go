// Package oraclev1 defines the wire contract of the distance oracle: the JSON
// bodies of the HTTP endpoints and the gRPC service descriptor shared by the
// daemon and its clients.
package oraclev1

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

// HTTP paths served by the oracle daemon
const (
	PathCalculateDistance = "/calculate_distance"
	PathHealth            = "/health"
	HealthyStatus         = "healthy"

	// RequestIDHeader carries a client-generated request id, as an HTTP
	// header and as gRPC metadata (lower case there).
	RequestIDHeader = "x-request-id"
)

// City is one point of a CalculateRequest. Coordinates are pointers so a
// missing x or y is distinguishable from zero.
type City struct {
	Name string   `json:"name"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
}

// CalculateRequest is the body of POST /calculate_distance
type CalculateRequest struct {
	Cities []City `json:"cities"`
}

// NewCalculateRequest encodes an ordered route
func NewCalculateRequest(route models.Route) CalculateRequest {
	cities := make([]City, 0, len(route))
	for _, p := range route {
		cities = append(cities, City{Name: p.Name, X: &p.X, Y: &p.Y})
	}
	return CalculateRequest{Cities: cities}
}

// Route decodes the request, rejecting cities without both coordinates
func (r CalculateRequest) Route() (models.Route, error) {
	route := make(models.Route, 0, len(r.Cities))
	for i, c := range r.Cities {
		if c.X == nil {
			return nil, fmt.Errorf("cities[%d]: x is required", i)
		}
		if c.Y == nil {
			return nil, fmt.Errorf("cities[%d]: y is required", i)
		}
		route = append(route, models.NewPoint(c.Name, *c.X, *c.Y))
	}
	return route, nil
}

// CalculateResponse is the success body of POST /calculate_distance. A nil
// TotalDistance means the field was absent.
type CalculateResponse struct {
	TotalDistance *float64 `json:"total_distance"`
}

// NewCalculateResponse wraps a computed length
func NewCalculateResponse(length float64) CalculateResponse {
	return CalculateResponse{TotalDistance: &length}
}

// ErrorResponse is returned with every 4xx/5xx status
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// NewRouteStruct encodes an ordered route as {"cities": [{name, x, y}, ...]}
func NewRouteStruct(route models.Route) (*structpb.Struct, error) {
	cities := make([]any, 0, len(route))
	for _, p := range route {
		cities = append(cities, map[string]any{
			"name": p.Name,
			"x":    p.X,
			"y":    p.Y,
		})
	}
	s, err := structpb.NewStruct(map[string]any{"cities": cities})
	if err != nil {
		return nil, fmt.Errorf("encode route: %w", err)
	}
	return s, nil
}

// RouteFromStruct decodes the message built by NewRouteStruct. A missing
// "cities" field decodes to an empty route.
func RouteFromStruct(s *structpb.Struct) (models.Route, error) {
	field, ok := s.GetFields()["cities"]
	if !ok {
		return models.Route{}, nil
	}
	list := field.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("cities must be a list")
	}

	route := make(models.Route, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		city := v.GetStructValue()
		if city == nil {
			return nil, fmt.Errorf("cities[%d] must be an object", i)
		}
		fields := city.GetFields()
		x, err := number(fields, "x")
		if err != nil {
			return nil, fmt.Errorf("cities[%d]: %w", i, err)
		}
		y, err := number(fields, "y")
		if err != nil {
			return nil, fmt.Errorf("cities[%d]: %w", i, err)
		}
		route = append(route, models.NewPoint(fields["name"].GetStringValue(), x, y))
	}
	return route, nil
}

func number(fields map[string]*structpb.Value, key string) (float64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	if math.IsNaN(n.NumberValue) || math.IsInf(n.NumberValue, 0) {
		return 0, fmt.Errorf("%s must be finite", key)
	}
	return n.NumberValue, nil
}

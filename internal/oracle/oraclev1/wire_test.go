package oraclev1

import (
	"encoding/json"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
)

func TestRouteStructRoundTrip(t *testing.T) {
	route := models.Route{
		models.NewPoint("A", 0, 0),
		models.NewPoint("B", 10.5, -5),
	}
	s, err := NewRouteStruct(route)
	if err != nil {
		t.Fatalf("NewRouteStruct: %v", err)
	}
	got, err := RouteFromStruct(s)
	if err != nil {
		t.Fatalf("RouteFromStruct: %v", err)
	}
	if got.String() != "A -> B" || got[1].X != 10.5 || got[1].Y != -5 {
		t.Fatalf("unexpected route %+v", got)
	}
}

func TestRouteFromStructErrors(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
	}{
		{"cities not a list", map[string]any{"cities": "A,B"}},
		{"city not an object", map[string]any{"cities": []any{"A"}}},
		{"missing x", map[string]any{"cities": []any{map[string]any{"name": "A", "y": 1.0}}}},
		{"string y", map[string]any{"cities": []any{map[string]any{"name": "A", "x": 1.0, "y": "2"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := structpb.NewStruct(tt.input)
			if err != nil {
				t.Fatalf("NewStruct: %v", err)
			}
			if _, err := RouteFromStruct(s); err == nil {
				t.Fatalf("expected decode error")
			}
		})
	}
}

func TestRouteFromStructMissingCities(t *testing.T) {
	route, err := RouteFromStruct(&structpb.Struct{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route) != 0 {
		t.Fatalf("expected empty route, got %v", route)
	}
}

func TestCalculateRequestJSON(t *testing.T) {
	body := `{"cities":[{"name":"A","x":0,"y":0},{"name":"B","x":10,"y":5}]}`
	var req CalculateRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	route, err := req.Route()
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(route) != 2 || route[1].Name != "B" || route[1].X != 10 || route[1].Y != 5 {
		t.Fatalf("unexpected route %+v", route)
	}

	out, err := json.Marshal(NewCalculateResponse(11.1803))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"total_distance":11.1803}` {
		t.Fatalf("unexpected body %s", out)
	}
}

func TestCalculateRequestRoundTrip(t *testing.T) {
	route := models.Route{models.NewPoint("A", 0, 0), models.NewPoint("B", 10, 5)}
	data, err := json.Marshal(NewCalculateRequest(route))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"cities":[{"name":"A","x":0,"y":0},{"name":"B","x":10,"y":5}]}` {
		t.Fatalf("unexpected body %s", data)
	}

	var req CalculateRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := req.Route()
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if len(got) != 2 || got[0] != route[0] || got[1] != route[1] {
		t.Fatalf("expected %v, got %v", route, got)
	}
}

func TestCalculateRequestMissingCoordinate(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing x", `{"cities":[{"name":"A","y":0},{"name":"B","x":1,"y":1}]}`, "cities[0]: x is required"},
		{"missing y", `{"cities":[{"name":"A","x":0,"y":0},{"name":"B","x":1}]}`, "cities[1]: y is required"},
		{"null x", `{"cities":[{"name":"A","x":null,"y":0}]}`, "cities[0]: x is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CalculateRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			_, err := req.Route()
			if err == nil || err.Error() != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCalculateResponseMissingDistance(t *testing.T) {
	for _, body := range []string{`{}`, `{"total_distance":null}`} {
		var resp CalculateResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			t.Fatalf("unmarshal %s: %v", body, err)
		}
		if resp.TotalDistance != nil {
			t.Fatalf("%s: expected nil distance, got %v", body, *resp.TotalDistance)
		}
	}
}

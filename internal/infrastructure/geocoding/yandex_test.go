package geocoding

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func geocodeBody(positions ...string) string {
	members := ""
	for i, pos := range positions {
		if i > 0 {
			members += ","
		}
		members += fmt.Sprintf(`{"GeoObject":{"Point":{"pos":"%s"}}}`, pos)
	}
	return fmt.Sprintf(`{"response":{"GeoObjectCollection":{"featureMember":[%s]}}}`, members)
}

func TestClient_Geocode_ParsesFirstMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("geocode"); got != "Moscow, Arbat 12" {
			t.Errorf("expected address in geocode param, got %q", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("expected apikey param, got %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("expected format=json, got %q", got)
		}
		fmt.Fprint(w, geocodeBody("37.591503 55.749875", "30.0 60.0"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"})

	coord, err := client.Geocode(context.Background(), "Moscow, Arbat 12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord == nil {
		t.Fatal("expected a coordinate")
	}
	// pos is "longitude latitude"; the first match wins.
	if coord.Lat != 55.749875 || coord.Lng != 37.591503 {
		t.Errorf("expected (55.749875, 37.591503), got (%v, %v)", coord.Lat, coord.Lng)
	}
}

func TestClient_Geocode_NoMatchReturnsNilNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geocodeBody())
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	coord, err := client.Geocode(context.Background(), "no such place")
	if err != nil {
		t.Fatalf("expected no error for empty result, got %v", err)
	}
	if coord != nil {
		t.Errorf("expected nil coordinate, got %v", coord)
	}
}

func TestClient_Geocode_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	if _, err := client.Geocode(context.Background(), "anywhere"); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestClient_Geocode_MalformedPoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geocodeBody("not-a-number 55.75"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	if _, err := client.Geocode(context.Background(), "anywhere"); err == nil {
		t.Fatal("expected error for malformed point")
	}
}

func TestClient_Geocode_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(Config{BaseURL: server.URL})

	if _, err := client.Geocode(context.Background(), "anywhere"); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestParsePos_RoundsToSixDecimals(t *testing.T) {
	coord, err := parsePos("37.5915031234 55.7498754321")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coord.Lat != 55.749875 || coord.Lng != 37.591503 {
		t.Errorf("expected 6-decimal rounding, got (%v, %v)", coord.Lat, coord.Lng)
	}
}

func TestParsePos_RejectsWrongFieldCount(t *testing.T) {
	if _, err := parsePos("37.59"); err == nil {
		t.Fatal("expected error for single field")
	}
	if _, err := parsePos(""); err == nil {
		t.Fatal("expected error for empty point")
	}
}

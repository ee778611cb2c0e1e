// Package geocoding implements the external geocoding provider client.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starburger/dispatch-system/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for the Yandex geocoding API.
type Config struct {
	BaseURL string // e.g. https://geocode-maps.yandex.ru/1.x
	APIKey  string
	Timeout time.Duration
}

// Client is a ports.Geocoder backed by the Yandex geocoding HTTP API. Every
// call is bounded by the configured timeout; a timeout or transport error is
// returned to the caller, who treats it as an unresolved address.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a geocoding client. A default timeout is applied when none
// is provided.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// geocodeResponse mirrors the slice of the provider payload we consume. The
// provider may return several matches; only the first (most relevant) one is
// used.
type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"` // "longitude latitude"
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// Geocode resolves a free-text address. It returns (nil, nil) when the
// provider answers successfully but finds no match.
func (c *Client) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	query := url.Values{}
	query.Set("geocode", address)
	query.Set("apikey", c.apiKey)
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("geocode response: %w", err)
	}

	members := payload.Response.GeoObjectCollection.FeatureMember
	if len(members) == 0 {
		return nil, nil
	}

	return parsePos(members[0].GeoObject.Point.Pos)
}

// parsePos parses the provider's "longitude latitude" point encoding.
func parsePos(pos string) (*domain.Coordinate, error) {
	fields := strings.Fields(pos)
	if len(fields) != 2 {
		return nil, fmt.Errorf("geocode response: malformed point %q", pos)
	}
	lng, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("geocode response: malformed longitude %q", fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("geocode response: malformed latitude %q", fields[1])
	}
	coord := domain.NewCoordinate(lat, lng)
	return &coord, nil
}

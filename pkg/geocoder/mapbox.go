package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// MapboxClient implements Geocoder using the Mapbox Geocoding API.
type MapboxClient struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

func NewMapboxClient(token string, timeout time.Duration) *MapboxClient {
	return &MapboxClient{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
	}
}

// ForwardGeocode converts a street address to coordinates.
// A response with no features yields an empty Result and no error.
func (c *MapboxClient) ForwardGeocode(ctx context.Context, address string) (Result, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(address))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"address,poi"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("forward geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return Result{}, nil
	}

	f := mapboxResp.Features[0]
	result := Result{FormattedAddress: f.PlaceName}
	if len(f.Center) == 2 {
		// Mapbox uses lon,lat order.
		result.Lon = f.Center[0]
		result.Lat = f.Center[1]
	}
	return result, nil
}

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
}

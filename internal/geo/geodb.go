package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"rezerva/internal/metrics"
)

const (
	defaultBaseURL = "http://geodb-free-service.wirefreethought.com/v1/geo"

	// The free tier caps result pages at ten entries, which also caps how
	// many nearby cities the discovery engine ever sees.
	nearbyLimit    = 10
	nearbyRadiusKm = 50
)

// GeoDBClient talks to the GeoDB Cities API.
type GeoDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewGeoDBClient(httpClient *http.Client) *GeoDBClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeoDBClient{
		baseURL:    defaultBaseURL,
		httpClient: httpClient,
	}
}

type cityPayload struct {
	Data []struct {
		City string `json:"city"`
	} `json:"data"`
}

func (c *GeoDBClient) ResolveCity(ctx context.Context, lat, lon float64) (string, error) {
	endpoint := fmt.Sprintf("%s/locations/%s/nearbyCities?%s",
		c.baseURL,
		formatCoords(lat, lon),
		url.Values{
			"radius": {"10"},
			"limit":  {"1"},
			"sort":   {"population"},
		}.Encode(),
	)

	payload, err := c.fetch(ctx, endpoint)
	if err != nil {
		metrics.GeoLookups.WithLabelValues("error").Inc()
		return "", err
	}
	if len(payload.Data) == 0 {
		metrics.GeoLookups.WithLabelValues("miss").Inc()
		return "", fmt.Errorf("no city at %.4f,%.4f", lat, lon)
	}

	metrics.GeoLookups.WithLabelValues("hit").Inc()
	return payload.Data[0].City, nil
}

func (c *GeoDBClient) NearbyCities(ctx context.Context, lat, lon float64) ([]string, error) {
	endpoint := fmt.Sprintf("%s/locations/%s/nearbyCities?%s",
		c.baseURL,
		formatCoords(lat, lon),
		url.Values{
			"radius": {fmt.Sprintf("%d", nearbyRadiusKm)},
			"limit":  {fmt.Sprintf("%d", nearbyLimit)},
			"sort":   {"population"},
		}.Encode(),
	)

	payload, err := c.fetch(ctx, endpoint)
	if err != nil {
		metrics.GeoLookups.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.GeoLookups.WithLabelValues("hit").Inc()
	cities := make([]string, 0, len(payload.Data))
	for _, entry := range payload.Data {
		cities = append(cities, entry.City)
	}
	return cities, nil
}

func (c *GeoDBClient) fetch(ctx context.Context, endpoint string) (*cityPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geodb request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geodb request failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var payload cityPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("geodb decode: %w", err)
	}
	return &payload, nil
}

// formatCoords renders the "lat+lon" path segment GeoDB expects, with an
// explicit plus sign on non-negative longitudes.
func formatCoords(lat, lon float64) string {
	return fmt.Sprintf("%+f%+f", lat, lon)
}

package geo

import "context"

// Client is the geolocation collaborator: reverse-geocoding a coordinate pair
// to a city name and listing nearby cities. Implementations are expected to
// bound the nearby list (the hosted API caps it at ten).
type Client interface {
	ResolveCity(ctx context.Context, lat, lon float64) (string, error)
	NearbyCities(ctx context.Context, lat, lon float64) ([]string, error)
}

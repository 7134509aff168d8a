package lib

import (
	"context"
	"errors"
	"fmt"

	"sltourism/src/config"

	"googlemaps.github.io/maps"
)

var mapsClient *maps.Client

var ErrNoGeocodeResult = errors.New("address not found")

func GetMapsClient() (*maps.Client, error) {
	if mapsClient != nil {
		return mapsClient, nil
	}
	cli, err := maps.NewClient(maps.WithAPIKey(config.GAPI_API_KEY))
	if err != nil {
		return nil, err
	}
	mapsClient = cli
	return cli, nil
}

// MapsGeocoder resolves free-text addresses with the Google Geocoding API.
type MapsGeocoder struct{}

func (MapsGeocoder) Geocode(ctx context.Context, address string) (float64, float64, error) {
	cli, err := GetMapsClient()
	if err != nil {
		return 0, 0, err
	}
	results, err := cli.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  "lk",
	})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: %s", ErrNoGeocodeResult, address)
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

package booking

import (
	"context"
	"errors"
	"strings"
)

// Geocoder turns a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat float64, lng float64, err error)
}

var ErrNoLocation = errors.New("either coordinates or an address is required")

// Location is a point given directly or as an address to be geocoded.
type Location struct {
	Point   *Point `json:"point"`
	Address string `json:"address"`
}

// Resolve prefers explicit coordinates and only geocodes when they are absent.
func (l Location) Resolve(ctx context.Context, g Geocoder) (Point, error) {
	if l.Point != nil {
		return *l.Point, nil
	}
	addr := strings.TrimSpace(l.Address)
	if addr == "" || g == nil {
		return Point{}, ErrNoLocation
	}
	lat, lng, err := g.Geocode(ctx, addr)
	if err != nil {
		return Point{}, err
	}
	return Point{Lat: lat, Lng: lng}, nil
}

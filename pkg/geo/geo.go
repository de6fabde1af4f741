// Package geo resolves place names to coordinates for the map visual.
//
// Lookups go through a [Geocoder]. The [Resolver] wraps one with an
// in-memory [Store], a persistent [cache.Cache], negative caching of failed
// lookups and request coalescing, so a map with thousands of rows issues one
// request per distinct place. Resolutions arrive asynchronously; a
// [Debouncer] coalesces them into a single re-render.
package geo

import (
	"context"
	"math"
	"strings"
)

// PlaceType narrows a lookup to one kind of place.
type PlaceType string

// Place types understood by the geocoder.
const (
	PlaceAny        PlaceType = ""
	PlaceCountry    PlaceType = "country"
	PlaceState      PlaceType = "state"
	PlaceCounty     PlaceType = "county"
	PlaceCity       PlaceType = "city"
	PlacePostalCode PlaceType = "postalcode"
	PlaceAddress    PlaceType = "address"
)

var placeHints = []struct {
	hint string
	t    PlaceType
}{
	{"country", PlaceCountry},
	{"region", PlaceState},
	{"state", PlaceState},
	{"province", PlaceState},
	{"county", PlaceCounty},
	{"city", PlaceCity},
	{"town", PlaceCity},
	{"zip", PlacePostalCode},
	{"postal", PlacePostalCode},
	{"address", PlaceAddress},
}

// PlaceTypeFromColumn guesses the place type from a column name such as
// "Country" or "Billing City". Unknown names map to PlaceAny.
func PlaceTypeFromColumn(name string) PlaceType {
	n := strings.ToLower(name)
	for _, h := range placeHints {
		if strings.Contains(n, h.hint) {
			return h.t
		}
	}
	return PlaceAny
}

// Location is the result of a lookup. Known is false for places the
// geocoder could not resolve.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Known     bool    `json:"known"`
}

// Unknown is the location of a place that failed to resolve.
var Unknown = Location{}

// Valid reports whether l is known and inside the coordinate ranges.
func (l Location) Valid() bool {
	return l.Known &&
		!math.IsNaN(l.Latitude) && !math.IsNaN(l.Longitude) &&
		math.Abs(l.Latitude) <= 90 && math.Abs(l.Longitude) <= 180
}

// Geocoder resolves one place name.
type Geocoder interface {
	Geocode(ctx context.Context, place string, placeType PlaceType) (Location, error)
}

// GeocoderFunc adapts a function to [Geocoder].
type GeocoderFunc func(ctx context.Context, place string, placeType PlaceType) (Location, error)

// Geocode calls f.
func (f GeocoderFunc) Geocode(ctx context.Context, place string, placeType PlaceType) (Location, error) {
	return f(ctx, place, placeType)
}

func storeKey(place string, placeType PlaceType) string {
	return string(placeType) + "|" + strings.ToLower(strings.TrimSpace(place))
}

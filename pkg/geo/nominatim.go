package geo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/httputil"
)

// DefaultNominatimURL is the public Nominatim endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// HTTPGeocoder queries a Nominatim-compatible search endpoint.
type HTTPGeocoder struct {
	client  *httputil.Client
	baseURL string
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewHTTPGeocoder returns a geocoder for baseURL (DefaultNominatimURL when
// empty). Raw responses are cached in c, which may be nil. The service
// requires an identifying userAgent.
func NewHTTPGeocoder(baseURL string, c cache.Cache, userAgent string) *HTTPGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &HTTPGeocoder{
		client:  httputil.NewClient("nominatim", c, cache.TTLGeocode, http.Header{"User-Agent": {userAgent}}),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Client returns the underlying HTTP client.
func (g *HTTPGeocoder) Client() *httputil.Client { return g.client }

// Geocode resolves place. Structured parameters are used for typed places
// and free-text search otherwise.
func (g *HTTPGeocoder) Geocode(ctx context.Context, place string, placeType PlaceType) (Location, error) {
	u := g.searchURL(place, placeType)

	var results []nominatimResult
	if err := g.client.GetJSON(ctx, u, &results); err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeNetwork
		}
		return Unknown, errors.Wrap(code, err, "geocode %q", place)
	}
	if len(results) == 0 {
		return Unknown, errors.New(errors.ErrCodeLocationNotFound, "no match for %q", place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Unknown, errors.Wrap(errors.ErrCodeInvalidData, err, "latitude of %q", place)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Unknown, errors.Wrap(errors.ErrCodeInvalidData, err, "longitude of %q", place)
	}
	return Location{Latitude: lat, Longitude: lon, Known: true}, nil
}

func (g *HTTPGeocoder) searchURL(place string, placeType PlaceType) string {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	switch placeType {
	case PlaceCountry, PlaceState, PlaceCounty, PlaceCity, PlacePostalCode:
		q.Set(string(placeType), place)
	default:
		q.Set("q", place)
	}
	return g.baseURL + "/search?" + q.Encode()
}

var _ Geocoder = (*HTTPGeocoder)(nil)

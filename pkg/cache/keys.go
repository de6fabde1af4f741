package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key prefixes. Backends may group entries by the text before the first
// colon.
const (
	KindArtifact = "artifact"
	KindGeocode  = "geo"
	KindResponse = "resp"
)

// Keyer generates cache keys. Components are hashed so keys are safe for
// every backend.
type Keyer interface {
	// ResponseKey is the key of a raw response of service to request.
	ResponseKey(service, request string) string

	// GeocodeKey is the key of a resolved location.
	GeocodeKey(place, placeType string) string

	// ArtifactKey is the key of one rendered output of a data view.
	ArtifactKey(dataHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change the output bytes.
type ArtifactKeyOpts struct {
	Visual   string  `json:"visual"`
	Format   string  `json:"format"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Locale   string  `json:"locale,omitempty"`
	Settings string  `json:"settings,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ResponseKey(service, request string) string {
	return digest(KindResponse, service, request)
}

func (DefaultKeyer) GeocodeKey(place, placeType string) string {
	return digest(KindGeocode, place, placeType)
}

func (DefaultKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return digest(KindArtifact, dataHash, opts)
}

// digest returns "kind:<sha256 of the JSON encoding of parts>".
func digest(kind string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

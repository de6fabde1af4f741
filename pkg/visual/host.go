package visual

import (
	"sync"

	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/geo"
	"github.com/matzehuels/chartpack/pkg/interactivity"
)

// Host is the runtime embedding a visual. Warnings are recoverable issues
// to show next to the visual.
type Host interface {
	Warn(visual string, warnings []errors.Warning)
}

// SelectionCapable hosts cross-filter other visuals on selection changes.
type SelectionCapable interface {
	SelectionHost() interactivity.SelectionHost
}

// GeocoderCapable hosts provide a location lookup service.
type GeocoderCapable interface {
	Geocoder() geo.Geocoder
}

// LocationStoreCapable hosts share resolved locations between the map
// visuals they construct.
type LocationStoreCapable interface {
	LocationStore() *geo.SharedStore
}

// Recorder is a [Host] that keeps every warning it receives.
type Recorder struct {
	mu       sync.Mutex
	warnings []errors.Warning

	// Selection, Geo and Locations are offered as optional capabilities
	// when set.
	Selection interactivity.SelectionHost
	Geo       geo.Geocoder
	Locations *geo.SharedStore
}

// Warn implements Host.
func (r *Recorder) Warn(_ string, warnings []errors.Warning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, warnings...)
}

// Warnings returns the warnings received so far.
func (r *Recorder) Warnings() []errors.Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]errors.Warning(nil), r.warnings...)
}

// SelectionHost implements SelectionCapable.
func (r *Recorder) SelectionHost() interactivity.SelectionHost { return r.Selection }

// Geocoder implements GeocoderCapable.
func (r *Recorder) Geocoder() geo.Geocoder { return r.Geo }

// LocationStore implements LocationStoreCapable.
func (r *Recorder) LocationStore() *geo.SharedStore { return r.Locations }

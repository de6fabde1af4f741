// Package observability lets hosts observe what visuals, caches and the
// geocoder do without the libraries depending on a metrics backend.
//
// Libraries emit events through the registered hooks:
//
//	observability.Visual().OnConvertComplete(ctx, "donut", points, d)
//	observability.Cache().OnCacheHit(ctx, "artifact")
//
// Hosts register one implementation per category, or a [Hooks] value
// covering all of them. [Counters] tallies events for a stats endpoint and
// [Fanout] combines several receivers:
//
//	counters := &observability.Counters{}
//	observability.Register(observability.Fanout(counters, logHooks))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Visual Hooks
// =============================================================================

// VisualHooks receives events from the convert → layout → render pipeline
// that every visual runs inside Update.
type VisualHooks interface {
	// Convert events
	OnConvertStart(ctx context.Context, visual string, rows int)
	OnConvertComplete(ctx context.Context, visual string, points int, duration time.Duration)

	// Layout events (scales, arcs, label placement)
	OnLayoutComplete(ctx context.Context, visual string, visibleLabels int, duration time.Duration)

	// Render events
	OnRenderComplete(ctx context.Context, visual string, entered, updated, exited int, duration time.Duration)

	// OnWarning records a non-fatal warning surfaced to the host.
	OnWarning(ctx context.Context, visual string, code string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Geocode Hooks
// =============================================================================

// GeocodeHooks receives events from location lookups.
type GeocodeHooks interface {
	// OnLookup records an outgoing geocode request.
	OnLookup(ctx context.Context, placeType string)

	// OnResolved records a successful lookup.
	OnResolved(ctx context.Context, placeType string, duration time.Duration)

	// OnFailed records a failed lookup (cached as unknown afterwards).
	OnFailed(ctx context.Context, placeType string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopVisualHooks is a no-op implementation of VisualHooks.
type NoopVisualHooks struct{}

func (NoopVisualHooks) OnConvertStart(context.Context, string, int)                   {}
func (NoopVisualHooks) OnConvertComplete(context.Context, string, int, time.Duration) {}
func (NoopVisualHooks) OnLayoutComplete(context.Context, string, int, time.Duration)  {}
func (NoopVisualHooks) OnRenderComplete(context.Context, string, int, int, int, time.Duration) {
}
func (NoopVisualHooks) OnWarning(context.Context, string, string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopGeocodeHooks is a no-op implementation of GeocodeHooks.
type NoopGeocodeHooks struct{}

func (NoopGeocodeHooks) OnLookup(context.Context, string)                  {}
func (NoopGeocodeHooks) OnResolved(context.Context, string, time.Duration) {}
func (NoopGeocodeHooks) OnFailed(context.Context, string, error)           {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	visualHooks  VisualHooks  = NoopVisualHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	geocodeHooks GeocodeHooks = NoopGeocodeHooks{}
	hooksMu      sync.RWMutex
)

// SetVisualHooks registers custom visual pipeline hooks.
// This should be called once at application startup before any visual is updated.
func SetVisualHooks(h VisualHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		visualHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetGeocodeHooks registers custom geocode hooks.
func SetGeocodeHooks(h GeocodeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		geocodeHooks = h
	}
}

// Visual returns the registered visual hooks.
func Visual() VisualHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return visualHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Geocode returns the registered geocode hooks.
func Geocode() GeocodeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return geocodeHooks
}

// Hooks receives every event category.
type Hooks interface {
	VisualHooks
	CacheHooks
	GeocodeHooks
}

// Register installs h for every category.
func Register(h Hooks) {
	if h == nil {
		return
	}
	SetVisualHooks(h)
	SetCacheHooks(h)
	SetGeocodeHooks(h)
}

// Fanout returns hooks that forward each event to every h in order.
func Fanout(hs ...Hooks) Hooks { return fanout(hs) }

type fanout []Hooks

func (f fanout) OnConvertStart(ctx context.Context, visual string, rows int) {
	for _, h := range f {
		h.OnConvertStart(ctx, visual, rows)
	}
}

func (f fanout) OnConvertComplete(ctx context.Context, visual string, points int, d time.Duration) {
	for _, h := range f {
		h.OnConvertComplete(ctx, visual, points, d)
	}
}

func (f fanout) OnLayoutComplete(ctx context.Context, visual string, labels int, d time.Duration) {
	for _, h := range f {
		h.OnLayoutComplete(ctx, visual, labels, d)
	}
}

func (f fanout) OnRenderComplete(ctx context.Context, visual string, entered, updated, exited int, d time.Duration) {
	for _, h := range f {
		h.OnRenderComplete(ctx, visual, entered, updated, exited, d)
	}
}

func (f fanout) OnWarning(ctx context.Context, visual, code string) {
	for _, h := range f {
		h.OnWarning(ctx, visual, code)
	}
}

func (f fanout) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheHit(ctx, keyType)
	}
}

func (f fanout) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (f fanout) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range f {
		h.OnCacheSet(ctx, keyType, size)
	}
}

func (f fanout) OnLookup(ctx context.Context, placeType string) {
	for _, h := range f {
		h.OnLookup(ctx, placeType)
	}
}

func (f fanout) OnResolved(ctx context.Context, placeType string, d time.Duration) {
	for _, h := range f {
		h.OnResolved(ctx, placeType, d)
	}
}

func (f fanout) OnFailed(ctx context.Context, placeType string, err error) {
	for _, h := range f {
		h.OnFailed(ctx, placeType, err)
	}
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	visualHooks = NoopVisualHooks{}
	cacheHooks = NoopCacheHooks{}
	geocodeHooks = NoopGeocodeHooks{}
}

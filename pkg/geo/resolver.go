package geo

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/observability"
)

// Resolver defaults.
const (
	DefaultLookupTimeout = 10 * time.Second
	DefaultConcurrency   = 4
)

// ResolverOptions configures a [Resolver]. Every field is optional; a
// resolver without a Geocoder only answers from its caches.
type ResolverOptions struct {
	Geocoder    Geocoder
	Cache       cache.Cache
	Keyer       cache.Keyer
	Store       *Store
	Logger      *log.Logger
	Timeout     time.Duration
	Concurrency int
}

// Resolver answers location lookups from memory, then the persistent cache,
// then the geocoder. Failed lookups are cached as unknown unless the failure
// is temporary. Concurrent lookups of the same place share one request.
type Resolver struct {
	geocoder    Geocoder
	cache       cache.Cache
	keyer       cache.Keyer
	store       *Store
	logger      *log.Logger
	timeout     time.Duration
	concurrency int
	group       singleflight.Group
}

// NewResolver returns a resolver configured by opts.
func NewResolver(opts ResolverOptions) *Resolver {
	r := &Resolver{
		geocoder:    opts.Geocoder,
		cache:       opts.Cache,
		keyer:       opts.Keyer,
		store:       opts.Store,
		logger:      opts.Logger,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
	}
	if r.cache == nil {
		r.cache = cache.NewNullCache()
	}
	if r.keyer == nil {
		r.keyer = cache.NewDefaultKeyer()
	}
	if r.store == nil {
		r.store = newStore()
	}
	if r.logger == nil {
		r.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if r.timeout <= 0 {
		r.timeout = DefaultLookupTimeout
	}
	if r.concurrency <= 0 {
		r.concurrency = DefaultConcurrency
	}
	return r
}

// Available reports whether the resolver can reach a geocoder.
func (r *Resolver) Available() bool { return r != nil && r.geocoder != nil }

// Lookup answers from memory only and never blocks.
func (r *Resolver) Lookup(place string, placeType PlaceType) (Location, bool) {
	if r == nil {
		return Unknown, false
	}
	return r.store.Get(place, placeType)
}

// Resolve returns the location of place, consulting the caches before the
// geocoder. A lookup that fails is recorded as unknown and returned without
// error; only a missing geocoder or a cancelled context are errors.
func (r *Resolver) Resolve(ctx context.Context, place string, placeType PlaceType) (Location, error) {
	if l, ok := r.Lookup(place, placeType); ok {
		return l, nil
	}
	if r == nil {
		return Unknown, errors.New(errors.ErrCodeUnsupported, "no geocoder available")
	}

	v, err, _ := r.group.Do(storeKey(place, placeType), func() (any, error) {
		return r.resolve(ctx, place, placeType)
	})
	if err != nil {
		return Unknown, err
	}
	return v.(Location), nil
}

// Geocode implements Geocoder, so a resolver can stand in for the geocoder
// it wraps.
func (r *Resolver) Geocode(ctx context.Context, place string, placeType PlaceType) (Location, error) {
	return r.Resolve(ctx, place, placeType)
}

func (r *Resolver) resolve(ctx context.Context, place string, placeType PlaceType) (Location, error) {
	key := r.keyer.GeocodeKey(place, string(placeType))
	if data, ok, _ := r.cache.Get(ctx, key); ok {
		var l Location
		if json.Unmarshal(data, &l) == nil {
			observability.Cache().OnCacheHit(ctx, "geocode")
			r.store.Put(place, placeType, l)
			return l, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "geocode")

	if r.geocoder == nil {
		return Unknown, errors.New(errors.ErrCodeUnsupported, "no geocoder available")
	}

	hooks := observability.Geocode()
	hooks.OnLookup(ctx, string(placeType))
	start := time.Now()

	lctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	l, err := r.geocoder.Geocode(lctx, place, placeType)

	ttl := cache.TTLGeocode
	switch {
	case err != nil && ctx.Err() != nil:
		return Unknown, ctx.Err()
	case err != nil:
		hooks.OnFailed(ctx, string(placeType), err)
		r.logger.Debug("geocode failed", "place", place, "type", placeType, "error", err)
		l, ttl = Unknown, cache.TTLGeocodeUnknown
	case !l.Valid():
		hooks.OnFailed(ctx, string(placeType), stderrors.New("invalid coordinates"))
		l, ttl = Unknown, cache.TTLGeocodeUnknown
	default:
		hooks.OnResolved(ctx, string(placeType), time.Since(start))
	}

	if errors.Temporary(err) {
		return l, nil
	}
	r.store.Put(place, placeType, l)
	if data, err := json.Marshal(l); err == nil {
		if r.cache.Set(ctx, key, data, ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "geocode", len(data))
		}
	}
	return l, nil
}

// ResolveAsync resolves place in the background and calls done with the
// result. done is not called when the lookup is cancelled. A place already
// in memory is answered synchronously and reports false.
func (r *Resolver) ResolveAsync(ctx context.Context, place string, placeType PlaceType, done func(place string, l Location)) (pending bool) {
	if _, ok := r.Lookup(place, placeType); ok {
		return false
	}
	if !r.Available() {
		return false
	}
	go func() {
		l, err := r.Resolve(ctx, place, placeType)
		if err != nil {
			return
		}
		done(place, l)
	}()
	return true
}

// ResolveAll resolves places concurrently and returns their locations in
// order. It stops at the first cancellation.
func (r *Resolver) ResolveAll(ctx context.Context, places []string, placeType PlaceType) ([]Location, error) {
	out := make([]Location, len(places))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, p := range places {
		g.Go(func() error {
			l, err := r.Resolve(gctx, p, placeType)
			if err != nil {
				return err
			}
			out[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/geo"
	"github.com/matzehuels/chartpack/pkg/observability"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// formatReport keys the cached report and warnings of a render.
const formatReport = "report"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the geocoder and the
// logger. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Registry *visual.Registry

	// Geocoder resolves place names for map visuals. Lookups go through
	// the runner's cache.
	Geocoder geo.Geocoder

	// Locations is shared by the map visuals this runner constructs. It
	// is created on first use when nil.
	Locations *geo.SharedStore

	resolverOnce  sync.Once
	resolver      *geo.Resolver
	locationsOnce sync.Once
}

// cachedRender is the cache entry holding everything but the artifacts.
type cachedRender struct {
	Report   visual.Report    `json:"report"`
	Warnings []errors.Warning `json:"warnings,omitempty"`
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Registry: visual.Default,
	}
}

// Execute runs the complete load → render → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(r.registry()); err != nil {
		return nil, err
	}

	data, err := json.Marshal(opts.DataView)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataView, err, "hash data view")
	}
	dataHash := cache.Hash(data)

	if !opts.Refresh {
		if result, ok := r.lookup(ctx, dataHash, opts); ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			opts.Logger.Info("served from cache", "visual", opts.Visual, "formats", opts.Formats)
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	renderStart := time.Now()
	result, err := Render(ctx, r.registry(), r.host(), opts)
	if err != nil {
		return nil, err
	}
	result.DataHash = dataHash
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered visual",
		"visual", opts.Visual,
		"points", result.Stats.Points,
		"warnings", len(result.Warnings),
		"duration", result.Stats.RenderTime)
	for _, w := range result.Warnings {
		opts.Logger.Warn(w.Message, "code", w.Code, "detail", w.Detail)
	}

	exportStart := time.Now()
	result.Artifacts = make(map[string][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		out, err := Export(ctx, result.SVG, f, opts.Scale, result.Report)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", f, err)
		}
		result.Artifacts[f] = out
	}
	result.Stats.ExportTime = time.Since(exportStart)

	r.store(ctx, dataHash, opts, result)
	return result, nil
}

// lookup returns a cached result when the report, the SVG and every
// requested format are cached.
func (r *Runner) lookup(ctx context.Context, dataHash string, opts Options) (*Result, bool) {
	get := func(f string) ([]byte, bool) {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(dataHash, opts.ArtifactKeyOpts(f)))
		return data, err == nil && hit
	}

	meta, ok := get(formatReport)
	if !ok {
		return nil, false
	}
	var entry cachedRender
	if err := json.Unmarshal(meta, &entry); err != nil {
		return nil, false
	}
	svg, ok := get(FormatSVG)
	if !ok {
		return nil, false
	}

	result := &Result{
		SVG:       svg,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
		Warnings:  entry.Warnings,
		Legend:    entry.Report.Legend,
		Report:    entry.Report,
		DataHash:  dataHash,
		CacheHit:  true,
		Stats: Stats{
			Points: len(entry.Report.Points),
			Labels: entry.Report.Labels,
		},
	}
	for _, f := range opts.Formats {
		if f == FormatSVG {
			result.Artifacts[f] = svg
			continue
		}
		data, ok := get(f)
		if !ok {
			return nil, false
		}
		result.Artifacts[f] = data
	}
	return result, true
}

// store caches the report, the SVG and every exported artifact. Cache
// failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, dataHash string, opts Options, result *Result) {
	set := func(f string, data []byte) {
		key := r.Keyer.ArtifactKey(dataHash, opts.ArtifactKeyOpts(f))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "format", f, "error", err)
			return
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	meta, err := json.Marshal(cachedRender{Report: result.Report, Warnings: result.Warnings})
	if err != nil {
		return
	}
	set(formatReport, meta)
	set(FormatSVG, result.SVG)
	for f, data := range result.Artifacts {
		if f != FormatSVG {
			set(f, data)
		}
	}
}

// Objects returns the effective settings of object for opts.
func (r *Runner) Objects(ctx context.Context, opts Options, object string) ([]visual.ObjectInstance, error) {
	r.applyLogger(&opts)
	return Objects(ctx, r.registry(), opts, object)
}

// host returns a fresh warning sink offering the runner's geocoder and
// location store.
func (r *Runner) host() *visual.Recorder {
	h := &visual.Recorder{Locations: r.locations()}
	if g := r.geocoder(); g != nil {
		h.Geo = g
	}
	return h
}

// geocoder wraps Geocoder in a resolver backed by the runner's cache.
func (r *Runner) geocoder() *geo.Resolver {
	if r.Geocoder == nil {
		return nil
	}
	r.resolverOnce.Do(func() {
		r.resolver = geo.NewResolver(geo.ResolverOptions{
			Geocoder: r.Geocoder,
			Cache:    r.Cache,
			Keyer:    r.Keyer,
			Logger:   r.Logger,
		})
	})
	return r.resolver
}

func (r *Runner) locations() *geo.SharedStore {
	r.locationsOnce.Do(func() {
		if r.Locations == nil {
			r.Locations = geo.NewSharedStore()
		}
	})
	return r.Locations
}

func (r *Runner) registry() *visual.Registry {
	if r.Registry == nil {
		return visual.Default
	}
	return r.Registry
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

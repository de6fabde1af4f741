package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies events. The zero value is ready to use and safe for
// concurrent use.
type Counters struct {
	renders     atomic.Int64
	points      atomic.Int64
	warnings    atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheBytes  atomic.Int64
	lookups     atomic.Int64
	resolved    atomic.Int64
	failed      atomic.Int64
	renderNanos atomic.Int64
}

// Snapshot is a point-in-time copy of [Counters].
type Snapshot struct {
	Renders       int64         `json:"renders"`
	Points        int64         `json:"points"`
	Warnings      int64         `json:"warnings"`
	CacheHits     int64         `json:"cacheHits"`
	CacheMisses   int64         `json:"cacheMisses"`
	CacheBytes    int64         `json:"cacheBytesWritten"`
	Lookups       int64         `json:"geocodeLookups"`
	Resolved      int64         `json:"geocodeResolved"`
	Failed        int64         `json:"geocodeFailed"`
	AvgRenderTime time.Duration `json:"avgRenderTime"`
}

// Snapshot returns the current values.
func (c *Counters) Snapshot() Snapshot {
	s := Snapshot{
		Renders:     c.renders.Load(),
		Points:      c.points.Load(),
		Warnings:    c.warnings.Load(),
		CacheHits:   c.cacheHits.Load(),
		CacheMisses: c.cacheMisses.Load(),
		CacheBytes:  c.cacheBytes.Load(),
		Lookups:     c.lookups.Load(),
		Resolved:    c.resolved.Load(),
		Failed:      c.failed.Load(),
	}
	if s.Renders > 0 {
		s.AvgRenderTime = time.Duration(c.renderNanos.Load() / s.Renders)
	}
	return s
}

func (c *Counters) OnConvertStart(context.Context, string, int) {}

func (c *Counters) OnConvertComplete(_ context.Context, _ string, points int, _ time.Duration) {
	c.points.Add(int64(points))
}

func (c *Counters) OnLayoutComplete(context.Context, string, int, time.Duration) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ string, _, _, _ int, d time.Duration) {
	c.renders.Add(1)
	c.renderNanos.Add(int64(d))
}

func (c *Counters) OnWarning(context.Context, string, string) { c.warnings.Add(1) }

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheBytes.Add(int64(size))
}

func (c *Counters) OnLookup(context.Context, string) { c.lookups.Add(1) }

func (c *Counters) OnResolved(context.Context, string, time.Duration) { c.resolved.Add(1) }

func (c *Counters) OnFailed(context.Context, string, error) { c.failed.Add(1) }

var _ Hooks = (*Counters)(nil)

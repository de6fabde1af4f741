package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartpack/pkg/observability"
)

// newLogger returns a logger with short wall-clock timestamps, e.g.
// "14:32:01.45 INFO Rendered donut".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one render and logs it on completion.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered donut (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// debugHooks logs pipeline events at debug level.
type debugHooks struct {
	logger *log.Logger
}

func (h debugHooks) OnConvertStart(_ context.Context, visual string, rows int) {
	h.logger.Debug("convert", "visual", visual, "rows", rows)
}

func (h debugHooks) OnConvertComplete(_ context.Context, visual string, points int, d time.Duration) {
	h.logger.Debug("converted", "visual", visual, "points", points, "duration", d)
}

func (h debugHooks) OnLayoutComplete(_ context.Context, visual string, labels int, d time.Duration) {
	h.logger.Debug("laid out", "visual", visual, "labels", labels, "duration", d)
}

func (h debugHooks) OnRenderComplete(_ context.Context, visual string, entered, updated, exited int, d time.Duration) {
	h.logger.Debug("rendered", "visual", visual, "enter", entered, "update", updated, "exit", exited, "duration", d)
}

func (h debugHooks) OnWarning(_ context.Context, visual string, code string) {
	h.logger.Debug("warning", "visual", visual, "code", code)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnLookup(_ context.Context, placeType string) {
	h.logger.Debug("geocode", "placeType", placeType)
}

func (h debugHooks) OnResolved(_ context.Context, placeType string, d time.Duration) {
	h.logger.Debug("geocoded", "placeType", placeType, "duration", d)
}

func (h debugHooks) OnFailed(_ context.Context, placeType string, err error) {
	h.logger.Debug("geocode failed", "placeType", placeType, "error", err)
}

var _ observability.Hooks = debugHooks{}

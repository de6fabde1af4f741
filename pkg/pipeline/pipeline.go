// Package pipeline renders a data view with a registered visual in one
// shot, for the CLI, the HTTP server and tests.
//
// # Architecture
//
// A run has three stages:
//
//  1. Load: decode the data view JSON and validate the options
//  2. Render: create the visual, resolve external data (map locations),
//     run one update with animations suppressed, and collect the SVG
//  3. Export: convert the SVG to the requested formats (PNG, PDF) and
//     serialize the report (JSON)
//
// Artifacts are cached by a hash of the data view and the options that
// change the output bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Visual:   "donut",
//	    DataView: dv,
//	    Formats:  []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.svg", result.SVG, 0o644)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/visual"
)

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 400.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 300.0

	// DefaultScale is the PNG rasterization scale.
	DefaultScale = 2.0

	// DefaultVisual is the visual used when none is named.
	DefaultVisual = "donut"

	// MaxDimension bounds the viewport so a request cannot allocate
	// unbounded rasters.
	MaxDimension = 8192.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options contains all configuration for a render.
// This struct supports JSON serialization for API requests.
type Options struct {
	Visual   string             `json:"visual"`
	DataView *dataview.DataView `json:"dataView"`
	Width    float64            `json:"width,omitempty"`
	Height   float64            `json:"height,omitempty"`
	Locale   string             `json:"locale,omitempty"`
	Palette  []string           `json:"palette,omitempty"`
	Formats  []string           `json:"formats,omitempty"`
	// Scale is the PNG rasterization factor.
	Scale float64 `json:"scale,omitempty"`
	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a render.
type Result struct {
	// SVG is the rendered document, also present in Artifacts.
	SVG []byte

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings are the warnings the visual reported.
	Warnings []errors.Warning

	// Legend is the legend model of the render.
	Legend []chart.LegendDataPoint

	// Report is the model of the render.
	Report visual.Report

	// DataHash is the content hash of the data view.
	DataHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is set when every artifact came from the cache.
	CacheHit bool
}

// Stats contains render statistics.
type Stats struct {
	Points     int           `json:"points"`
	Labels     int           `json:"labels"`
	Shapes     int           `json:"shapes"`
	RenderTime time.Duration `json:"renderTime"`
	ExportTime time.Duration `json:"exportTime"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(f string) error {
	if !ValidFormats[f] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", f)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVisual checks that name is registered in reg.
func ValidateVisual(reg *visual.Registry, name string) error {
	if _, ok := reg.Lookup(name); !ok {
		return errors.New(errors.ErrCodeInvalidVisual, "invalid visual: %q (must be one of: %s)", name, strings.Join(reg.Names(), ", "))
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults(reg *visual.Registry) error {
	if o.validated {
		return nil
	}
	if o.DataView == nil {
		return errors.New(errors.ErrCodeInvalidDataView, "data view is required")
	}
	if o.Visual == "" {
		o.Visual = DefaultVisual
	}
	if err := ValidateVisual(reg, o.Visual); err != nil {
		return err
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Width > MaxDimension || o.Height > MaxDimension {
		return errors.New(errors.ErrCodeInvalidInput, "viewport %gx%g exceeds %g", o.Width, o.Height, MaxDimension)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Viewport returns the render viewport.
func (o *Options) Viewport() chart.Viewport {
	return chart.Viewport{Width: o.Width, Height: o.Height}
}

// ArtifactKeyOpts returns cache key options for format.
func (o *Options) ArtifactKeyOpts(f string) cache.ArtifactKeyOpts {
	settings := strings.Join(o.Palette, ",")
	if f == FormatPNG {
		settings += fmt.Sprintf(";scale=%g", o.Scale)
	}
	return cache.ArtifactKeyOpts{
		Visual:   o.Visual,
		Format:   f,
		Width:    o.Width,
		Height:   o.Height,
		Locale:   format.ParseLocale(o.Locale).String(),
		Settings: settings,
	}
}

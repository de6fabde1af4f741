package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/chartpack/pkg/cache"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/geo"
	"github.com/matzehuels/chartpack/pkg/visual"
	_ "github.com/matzehuels/chartpack/pkg/visual/all"
)

func sales() *dataview.DataView {
	return dataview.NewBuilder().
		Category("Region", "North", "South", "East").
		Measure("Sales", 10.0, 20.0, 40.0).
		Build()
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVisual(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"donut", false},
		{"aster", false},
		{"tornado", false},
		{"histogram", false},
		{"globemap", false},
		{"pie", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVisual(visual.Default, tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVisual(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidVisual) {
			t.Errorf("ValidateVisual(%q) code = %v", tt.name, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{DataView: sales()}
	if err := opts.ValidateAndSetDefaults(visual.Default); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Visual != DefaultVisual {
		t.Errorf("Visual = %q, want %q", opts.Visual, DefaultVisual)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %gx%g", opts.Width, opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %g", opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger not set")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing data", Options{}, errors.ErrCodeInvalidDataView},
		{"unknown visual", Options{DataView: sales(), Visual: "pie"}, errors.ErrCodeInvalidVisual},
		{"bad format", Options{DataView: sales(), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"too wide", Options{DataView: sales(), Width: MaxDimension + 1}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults(visual.Default)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{DataView: sales(), Width: 640}
	if err := opts.ValidateAndSetDefaults(visual.Default); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(visual.Default); err != nil {
		t.Fatal(err)
	}
	if opts.Width != first.Width || opts.Visual != first.Visual {
		t.Errorf("second call changed options: %+v", opts)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{DataView: sales(), Palette: []string{"#ff0000"}, Locale: "de-DE"}
	if err := opts.ValidateAndSetDefaults(visual.Default); err != nil {
		t.Fatal(err)
	}
	svg := opts.ArtifactKeyOpts(FormatSVG)
	png := opts.ArtifactKeyOpts(FormatPNG)
	if svg.Settings == png.Settings {
		t.Error("PNG key should include the scale")
	}
	if svg.Locale != "de-DE" {
		t.Errorf("Locale = %q", svg.Locale)
	}
	keyer := cache.NewDefaultKeyer()
	if keyer.ArtifactKey("h", svg) == keyer.ArtifactKey("h", png) {
		t.Error("formats should not share a key")
	}
}

func TestRender(t *testing.T) {
	for _, name := range visual.Default.Names() {
		t.Run(name, func(t *testing.T) {
			res, err := Render(context.Background(), visual.Default, nil, Options{Visual: name, DataView: sales()})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !bytes.HasPrefix(bytes.TrimSpace(res.SVG), []byte("<?xml")) && !bytes.Contains(res.SVG, []byte("<svg")) {
				t.Errorf("not an SVG document: %.80s", res.SVG)
			}
		})
	}
}

func TestRenderDonutReport(t *testing.T) {
	res, err := Render(context.Background(), visual.Default, nil, Options{Visual: "donut", DataView: sales()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Points != 3 {
		t.Errorf("Points = %d, want 3", res.Stats.Points)
	}
	if len(res.Legend) != 3 {
		t.Errorf("Legend = %d entries, want 3", len(res.Legend))
	}
	if res.Stats.Shapes == 0 {
		t.Error("no shapes drawn")
	}
}

func TestRenderWarnings(t *testing.T) {
	dv := dataview.NewBuilder().
		Category("Dept", "Sales", "Ops").
		SeriesMeasure("Year", 2021, "Amount", 1.0, 2.0).
		SeriesMeasure("Year", 2022, "Amount", 3.0, 4.0).
		SeriesMeasure("Year", 2023, "Amount", 5.0, 6.0).
		Build()

	res, err := Render(context.Background(), visual.Default, nil, Options{Visual: "tornado", DataView: dv})
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range res.Warnings {
		if w.Code == errors.ErrCodeTooManySeries {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want TOO_MANY_SERIES", res.Warnings)
	}
	if !bytes.Contains(res.SVG, []byte("<svg")) {
		t.Error("discarded update should still produce an empty document")
	}
}

func TestExport(t *testing.T) {
	report := visual.Report{Visual: "donut", Labels: 2}
	out, err := Export(context.Background(), []byte("<svg/>"), FormatJSON, 1, report)
	if err != nil {
		t.Fatal(err)
	}
	var got visual.Report
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if got.Visual != "donut" || got.Labels != 2 {
		t.Errorf("report = %+v", got)
	}

	if _, err := Export(context.Background(), nil, "gif", 1, report); err == nil {
		t.Error("unknown format should fail")
	}
}

// countingCache records gets and sets on top of a real cache.
type countingCache struct {
	cache.Cache
	hits, sets atomic.Int32
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if ok {
		c.hits.Add(1)
	}
	return data, ok, err
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.sets.Add(1)
	return c.Cache.Set(ctx, key, data, ttl)
}

func TestRunnerCaches(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := &countingCache{Cache: fc}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	opts := Options{Visual: "aster", DataView: sales(), Formats: []string{FormatSVG, FormatJSON}}
	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first run should miss")
	}
	if first.DataHash == "" {
		t.Error("DataHash not set")
	}
	if c.sets.Load() != 3 {
		t.Errorf("sets = %d, want 3 (report, svg, json)", c.sets.Load())
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("second run should hit")
	}
	if !bytes.Equal(first.SVG, second.SVG) {
		t.Error("cached SVG differs")
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached JSON differs")
	}
	if second.Stats.Points != first.Stats.Points {
		t.Errorf("Points = %d, want %d", second.Stats.Points, first.Stats.Points)
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerCacheKeyedBySettings(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner.Cache = fc

	if _, err := runner.Execute(context.Background(), Options{Visual: "donut", DataView: sales()}); err != nil {
		t.Fatal(err)
	}
	res, err := runner.Execute(context.Background(), Options{Visual: "donut", DataView: sales(), Width: 800})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("a different viewport must not hit the cache")
	}
}

func TestRunnerGeocoder(t *testing.T) {
	var calls atomic.Int32
	runner := NewRunner(nil, nil, nil)
	runner.Geocoder = geo.GeocoderFunc(func(ctx context.Context, place string, _ geo.PlaceType) (geo.Location, error) {
		calls.Add(1)
		return geo.Location{Latitude: 52.5, Longitude: 13.4, Known: true}, nil
	})

	dv := dataview.NewBuilder().
		Category("City", "Berlin").
		Measure("Sales", 5.0).
		Build()
	res, err := runner.Execute(context.Background(), Options{Visual: "globemap", DataView: dv})
	if err != nil {
		t.Fatal(err)
	}
	if calls.Load() == 0 {
		t.Error("geocoder not called")
	}
	for _, w := range res.Warnings {
		if w.Code == errors.ErrCodeLocationNotFound {
			t.Errorf("unexpected warning %v", w)
		}
	}
}

func TestRunnerObjects(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	instances, err := runner.Objects(context.Background(), Options{Visual: "donut", DataView: sales()}, "donut")
	if err != nil {
		t.Fatal(err)
	}
	if len(instances) == 0 {
		t.Fatal("no instances")
	}
	if _, ok := instances[0].Properties["innerRadius"]; !ok {
		t.Errorf("Properties = %v, want innerRadius", instances[0].Properties)
	}

	_, err = runner.Objects(context.Background(), Options{Visual: "donut", DataView: sales()}, "nope")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	if runner.Cache == nil || runner.Keyer == nil || runner.Logger == nil || runner.Registry == nil {
		t.Errorf("defaults not applied: %+v", runner)
	}
}

func TestRunnerOwnsLocations(t *testing.T) {
	a, b := NewRunner(nil, nil, nil), NewRunner(nil, nil, nil)
	if a.host().Locations != a.host().Locations {
		t.Error("one runner should hand every visual the same location store")
	}
	if a.host().Locations == b.host().Locations {
		t.Error("runners should not share a location store")
	}

	a.Geocoder = geo.GeocoderFunc(func(context.Context, string, geo.PlaceType) (geo.Location, error) {
		return geo.Location{Latitude: 48.9, Longitude: 2.35, Known: true}, nil
	})
	dv := dataview.NewBuilder().Category("City", "Paris").Measure("Sales", 3.0).Build()
	if _, err := a.Execute(context.Background(), Options{Visual: "globemap", DataView: dv}); err != nil {
		t.Fatal(err)
	}
	if n := a.Locations.References(); n != 0 {
		t.Errorf("references after render = %d, want 0", n)
	}
}

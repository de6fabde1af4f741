// Package globemap implements the flat globe map: category values are
// places, geocoded in the background and drawn as bubbles or bars on a
// Web Mercator projection of the viewport.
//
// Latitude and longitude value columns, when bound, are used instead of
// geocoding. Resolutions arrive asynchronously and are coalesced into one
// re-render per debounce window. Locations are shared between instances
// through the host's reference-counted [geo.SharedStore].
package globemap

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/convert"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/geo"
	"github.com/matzehuels/chartpack/pkg/labels"
	"github.com/matzehuels/chartpack/pkg/layout"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/settings"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// Name is the registry tag.
const Name = "globemap"

// Map settings.
const (
	ObjectMap = "map"

	PropStyle     = "style"
	PropMaxSize   = "maxSize"
	PropPlaceType = "placeType"

	StyleBubbles = "bubbles"
	StyleBars    = "bars"

	placeTypeAuto = "auto"
)

// Data roles of the coordinate columns.
const (
	RoleLatitude  = "Latitude"
	RoleLongitude = "Longitude"
)

// DebounceWindow is the delay between the last resolved location and the
// re-render it triggers.
var DebounceWindow = geo.DefaultDebounceWindow

const barWidth = 4.0

// Schema is the globe map's settings schema.
var Schema = settings.NewSchema(
	settings.Legend(),
	settings.Labels(settings.LabelStyleCategory),
	settings.Object{Name: ObjectMap, Properties: []settings.Property{
		{Name: PropStyle, Kind: settings.KindEnum, Default: StyleBubbles, Options: []string{StyleBubbles, StyleBars}},
		{Name: PropMaxSize, Kind: settings.KindNumber, Default: 30.0, Min: 2, Max: 200},
		{Name: PropPlaceType, Kind: settings.KindEnum, Default: placeTypeAuto, Options: []string{
			placeTypeAuto,
			string(geo.PlaceCountry),
			string(geo.PlaceState),
			string(geo.PlaceCounty),
			string(geo.PlaceCity),
			string(geo.PlacePostalCode),
			string(geo.PlaceAddress),
		}},
	}},
)

func init() {
	visual.Register(visual.Info{
		Name:        Name,
		Description: "Map of geocoded categories drawn as bubbles or bars",
		Schema:      Schema,
		Factory:     New,
	})
}

// GlobeMap is a globe map instance. It is safe for use while locations
// resolve in the background.
type GlobeMap struct {
	visual.Base

	mu        sync.Mutex
	resolver  *geo.Resolver
	shared    *geo.SharedStore
	store     *geo.Store
	debouncer *geo.Debouncer
	pending   map[string]bool

	points    []chart.DataPoint
	legend    []chart.LegendDataPoint
	agg       chart.Aggregates
	coords    map[string]geo.Location
	placeType geo.PlaceType
	located   int
	warned    int
}

// New returns an uninitialized globe map.
func New() visual.Visual {
	return &GlobeMap{Base: visual.NewBase(Name, Schema)}
}

// Init implements visual.Visual. The geocoder comes from a host that
// offers one; without it only cached and explicit coordinates are shown.
func (g *GlobeMap) Init(opts visual.InitOptions) {
	if !g.Setup(opts) {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	var gc geo.Geocoder
	if h, ok := g.Host().(visual.GeocoderCapable); ok {
		gc = h.Geocoder()
	}
	g.shared = nil
	if h, ok := g.Host().(visual.LocationStoreCapable); ok {
		g.shared = h.LocationStore()
	}
	if g.shared == nil {
		g.shared = geo.NewSharedStore()
	}
	g.store = g.shared.Acquire()
	g.resolver = geo.NewResolver(geo.ResolverOptions{Geocoder: gc, Store: g.store, Logger: g.Logger()})
	g.pending = make(map[string]bool)
	g.debouncer = geo.NewDebouncer(DebounceWindow, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if !g.Destroyed() {
			g.draw(false)
		}
	})
	g.SetRedraw(func(suppress bool) { g.draw(suppress) })
	if !g.resolver.Available() {
		g.Logger().Debug("no geocoder, drawing cached locations only")
	}
}

// Update implements visual.Visual.
func (g *GlobeMap) Update(opts visual.UpdateOptions) {
	g.mu.Lock()
	defer g.mu.Unlock()

	dv, ok := g.Begin(opts)
	if !ok {
		g.points, g.legend, g.coords = nil, nil, nil
		return
	}
	stripped, coords := SplitCoordinates(dv)
	res, ok := g.Convert(stripped, convert.Options{})
	if !ok {
		return
	}
	g.points, g.legend, g.agg, g.coords = res.Points, res.Legend, res.Aggregates, coords
	g.placeType = g.resolvePlaceType(stripped)
	g.Bind(g.points, g.legend, g.agg.HasHighlights && !g.agg.HighlightsOverflow)
	g.draw(opts.SuppressAnimations)
}

// Prefetch implements visual.Prefetcher: it resolves every place of dv
// before the first update, so one-shot renders show all locations.
func (g *GlobeMap) Prefetch(ctx context.Context, dv *dataview.DataView) error {
	g.mu.Lock()
	resolver := g.resolver
	g.mu.Unlock()
	if !resolver.Available() || dv.Shape() != dataview.ShapeCategory {
		return nil
	}
	stripped, coords := SplitCoordinates(dv)
	pt := g.placeTypeOf(settings.Parse(Schema, dv.Objects()), stripped)
	var places []string
	for _, v := range stripped.Categorical.Categories[0].Values {
		place := dataview.DisplayText(v)
		if _, ok := coords[place]; !ok && !slices.Contains(places, place) {
			places = append(places, place)
		}
	}
	_, err := resolver.ResolveAll(ctx, places, pt)
	return err
}

func (g *GlobeMap) resolvePlaceType(dv *dataview.DataView) geo.PlaceType {
	return g.placeTypeOf(g.Settings(), dv)
}

func (g *GlobeMap) placeTypeOf(s settings.Values, dv *dataview.DataView) geo.PlaceType {
	if t := s.String(ObjectMap, PropPlaceType); t != placeTypeAuto {
		return geo.PlaceType(t)
	}
	if dv.Categorical != nil && len(dv.Categorical.Categories) > 0 {
		return geo.PlaceTypeFromColumn(dv.Categorical.Categories[0].Source.DisplayName)
	}
	return geo.PlaceAny
}

// locate returns the location of place, dispatching a background lookup
// when it is not known yet.
func (g *GlobeMap) locate(place string) (geo.Location, bool) {
	if l, ok := g.coords[place]; ok {
		return l, true
	}
	if l, ok := g.resolver.Lookup(place, g.placeType); ok {
		return l, true
	}
	if g.pending[place] {
		return geo.Unknown, false
	}
	pending := g.resolver.ResolveAsync(g.Context(), place, g.placeType, func(place string, _ geo.Location) {
		g.mu.Lock()
		delete(g.pending, place)
		g.mu.Unlock()
		g.debouncer.Trigger()
	})
	if pending {
		g.pending[place] = true
	}
	return geo.Unknown, false
}

func (g *GlobeMap) draw(suppress bool) {
	vp := g.Viewport()
	s := g.Settings()
	style := s.String(ObjectMap, PropStyle)
	maxSize := s.Number(ObjectMap, PropMaxSize)

	hi := 0.0
	for _, p := range g.points {
		hi = math.Max(hi, math.Abs(p.Value))
	}
	series := seriesIndex(g.points)

	shapes := make([]render.Shape, 0, len(g.points))
	var cands []labels.Candidate
	fontSize := s.Number(settings.ObjectLabels, settings.PropFontSize)
	located, unknown := 0, 0
	seenUnknown := make(map[string]bool)
	for i := range g.points {
		p := &g.points[i]
		p.Geometry = chart.Geometry{}
		l, ok := g.locate(p.Category)
		if !ok {
			continue
		}
		if !l.Valid() {
			if !seenUnknown[p.Category] {
				seenUnknown[p.Category] = true
				unknown++
			}
			continue
		}
		located++
		pt := layout.Mercator(l.Latitude, l.Longitude, vp)
		p.Geometry.Center = pt
		ratio := 0.0
		if hi > 0 {
			ratio = math.Abs(p.Value) / hi
		}

		switch style {
		case StyleBars:
			h := math.Max(ratio*maxSize, 1)
			x := pt.X - barWidth*float64(len(series))/2 + barWidth*float64(series[p.Series])
			p.Geometry.Rect = chart.Rect{X: x, Y: pt.Y - h, Width: barWidth, Height: h}
			shapes = append(shapes, visual.RectShape(string(p.Identity), visual.ClassBar, p.Geometry.Rect, p.Color, p.Opacity))
		default:
			r := math.Max(math.Sqrt(ratio)*maxSize/2, 1)
			p.Geometry.OuterRadius = r
			shapes = append(shapes, render.Shape{
				Key:   string(p.Identity),
				Kind:  render.KindCircle,
				Class: visual.ClassBubble,
				Attrs: render.Attrs{X: pt.X, Y: pt.Y, Radius: r, Fill: p.Color, Stroke: "#ffffff", StrokeWidth: 1, Opacity: p.Opacity},
			})
		}
		if p.Label != "" {
			cands = append(cands, labels.Candidate{
				ID:        string(p.Identity),
				Text:      p.Label,
				Anchor:    chart.Point{X: pt.X, Y: pt.Y - p.Geometry.OuterRadius - p.Geometry.Rect.Height - fontSize/2},
				ShapeEdge: pt,
				Center:    pt,
				FontSize:  fontSize,
				Priority:  math.Abs(p.Value),
				Align:     labels.AlignCenter,
			})
		}
	}
	g.located = located

	if unknown > 0 && unknown != g.warned {
		g.Warn(errors.UnknownLocationsWarning(unknown))
	}
	g.warned = unknown

	visible := 0
	if s.Bool(settings.ObjectLabels, settings.PropShow) && len(cands) > 0 {
		placed := labels.Place(cands, vp, labels.Options{Measurer: g.Measurer()})
		visible = labels.VisibleCount(placed)
		shapes = append(shapes, visual.LabelShapes(placed, fontSize, s.String(settings.ObjectLabels, settings.PropColor))...)
	}

	g.Record(g.points, g.legend, g.agg, visible)
	g.Draw(shapes, suppress)
}

// seriesIndex numbers the distinct series in order of appearance.
func seriesIndex(points []chart.DataPoint) map[string]int {
	out := make(map[string]int)
	for _, p := range points {
		if _, ok := out[p.Series]; !ok {
			out[p.Series] = len(out)
		}
	}
	return out
}

// Located returns the number of points drawn by the last render.
func (g *GlobeMap) Located() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.located
}

// Pending returns the number of lookups in flight.
func (g *GlobeMap) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// Report implements visual.Reporter.
func (g *GlobeMap) Report() visual.Report {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Base.Report()
}

// Shapes returns the shapes on screen.
func (g *GlobeMap) Shapes() []render.Shape {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Base.Shapes()
}

// Frame implements visual.Animator.
func (g *GlobeMap) Frame() (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Base.Frame()
}

// Animating implements visual.Animator.
func (g *GlobeMap) Animating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Base.Animating()
}

// Click implements visual.Pointer.
func (g *GlobeMap) Click(id dataview.Identity, multi bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Base.Click(id, multi)
}

// ClearBackground implements visual.Pointer.
func (g *GlobeMap) ClearBackground() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Base.ClearBackground()
}

// Hover implements visual.Pointer.
func (g *GlobeMap) Hover(id dataview.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Base.Hover(id)
}

// Leave implements visual.Pointer.
func (g *GlobeMap) Leave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Base.Leave()
}

// OnClearSelection implements visual.Visual.
func (g *GlobeMap) OnClearSelection() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Base.OnClearSelection()
}

// EnumerateObjectInstances implements visual.Visual.
func (g *GlobeMap) EnumerateObjectInstances(object string) []visual.ObjectInstance {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Base.EnumerateObjectInstances(object)
}

// Destroy implements visual.Visual. Pending lookups are cancelled and the
// shared location store is released.
func (g *GlobeMap) Destroy() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Destroyed() {
		return
	}
	if g.debouncer != nil {
		g.debouncer.Stop()
	}
	if g.store != nil {
		g.shared.Release()
		g.store = nil
	}
	g.Base.Destroy()
}

// SplitCoordinates removes latitude and longitude value columns from dv.
// It returns the remaining view and the coordinates of every category row
// that has both. A view left without measures gets a constant one so every
// location is drawn.
func SplitCoordinates(dv *dataview.DataView) (*dataview.DataView, map[string]geo.Location) {
	c := dv.Categorical
	if c == nil || len(c.Categories) == 0 {
		return dv, nil
	}
	var lat, lon *dataview.ValueColumn
	var rest []dataview.ValueColumn
	for i := range c.Values {
		col := &c.Values[i]
		switch {
		case isCoordinate(col.Source, RoleLatitude, "latitude", "lat"):
			lat = col
		case isCoordinate(col.Source, RoleLongitude, "longitude", "lon", "long", "lng"):
			lon = col
		default:
			rest = append(rest, *col)
		}
	}
	if lat == nil || lon == nil {
		return dv, nil
	}

	cat := &c.Categories[0]
	coords := make(map[string]geo.Location, len(cat.Values))
	for i, v := range cat.Values {
		l := geo.Location{Latitude: lat.Value(i), Longitude: lon.Value(i), Known: true}
		if l.Valid() {
			coords[dataview.DisplayText(v)] = l
		}
	}

	if len(rest) == 0 {
		ones := make([]any, len(cat.Values))
		for i := range ones {
			ones[i] = 1.0
		}
		rest = append(rest, dataview.ValueColumn{
			Source: dataview.Column{DisplayName: "Count", QueryName: "Count", IsMeasure: true},
			Values: ones,
		})
	}
	cc := *c
	cc.Values = rest
	out := *dv
	out.Categorical = &cc
	return &out, coords
}

func isCoordinate(col dataview.Column, role string, names ...string) bool {
	if col.HasRole(role) {
		return true
	}
	return slices.Contains(names, strings.ToLower(strings.TrimSpace(col.DisplayName)))
}

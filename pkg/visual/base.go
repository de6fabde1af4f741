package visual

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/color"
	"github.com/matzehuels/chartpack/pkg/convert"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/interactivity"
	"github.com/matzehuels/chartpack/pkg/observability"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/settings"
)

// DefaultTransition is the duration of update transitions.
const DefaultTransition = 250 * time.Millisecond

// Base holds the state shared by every plugin. Embed it and call Setup from
// Init and Begin from Update.
type Base struct {
	id     string
	name   string
	schema *settings.Schema

	host     Host
	logger   *log.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	clock    render.Clock
	rec      *render.Reconciler
	colors   *color.Resolver
	measurer format.Measurer
	locale   language.Tag
	service  *interactivity.Service
	viewport chart.Viewport
	settings settings.Values
	pending  settings.Values
	report   Report

	interactive bool
	initialized bool
	destroyed   bool
	redraw      func(suppress bool)
}

// NewBase returns the shared state of a visual called name.
func NewBase(name string, schema *settings.Schema) Base {
	return Base{
		id:       uuid.NewString(),
		name:     name,
		schema:   schema,
		settings: settings.Defaults(schema),
		report:   Report{Visual: name},
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
}

// Setup applies opts. It returns false when the instance was already
// initialized or destroyed, in which case nothing changes.
func (b *Base) Setup(opts InitOptions) bool {
	if b.initialized || b.destroyed {
		b.logger.Debug("init ignored", "visual", b.name, "initialized", b.initialized)
		return false
	}
	b.initialized = true

	if opts.Logger != nil {
		b.logger = opts.Logger.With("visual", b.name, "instance", b.id[:8])
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	b.ctx, b.cancel = context.WithCancel(ctx)
	b.host = opts.Host
	b.clock = opts.Clock
	if b.clock == nil {
		b.clock = render.RealClock{}
	}
	b.rec = render.NewReconciler(opts.Surface, b.clock, DefaultTransition)
	b.viewport = opts.Viewport
	b.rec.Resize(opts.Viewport)
	b.colors = color.NewResolver(opts.Palette)
	b.measurer = opts.Measurer
	if b.measurer == nil {
		b.measurer = format.ApproxMeasurer{}
	}
	b.locale = opts.Locale
	b.interactive = opts.Interactive

	var sel interactivity.SelectionHost
	if sc, ok := b.host.(SelectionCapable); ok {
		sel = sc.SelectionHost()
	}
	svc, err := interactivity.NewService(sel, b.logger)
	if err != nil {
		// Without a service every interaction is a no-op.
		b.logger.Warn("interactivity unavailable", "error", err)
	} else {
		b.service = svc
	}
	return true
}

// SetRedraw registers the function that re-renders the last layout, used
// after selection changes.
func (b *Base) SetRedraw(fn func(suppress bool)) { b.redraw = fn }

// ID returns the instance id.
func (b *Base) ID() string { return b.id }

// Name returns the visual type tag.
func (b *Base) Name() string { return b.name }

// Logger returns the instance logger.
func (b *Base) Logger() *log.Logger { return b.logger }

// Context is cancelled when the visual is destroyed.
func (b *Base) Context() context.Context {
	if b.ctx == nil {
		return context.Background()
	}
	return b.ctx
}

// Host returns the host, which may be nil.
func (b *Base) Host() Host { return b.host }

// Clock returns the animation clock.
func (b *Base) Clock() render.Clock { return b.clock }

// Colors returns the per-instance color resolver.
func (b *Base) Colors() *color.Resolver { return b.colors }

// Measurer returns the text measurer.
func (b *Base) Measurer() format.Measurer { return b.measurer }

// Locale returns the formatting locale.
func (b *Base) Locale() language.Tag { return b.locale }

// Service returns the selection service, nil when unavailable.
func (b *Base) Service() *interactivity.Service { return b.service }

// Viewport returns the current viewport.
func (b *Base) Viewport() chart.Viewport { return b.viewport }

// Settings returns the settings of the last kept update.
func (b *Base) Settings() settings.Values { return b.settings }

// Interactive reports whether the host asked for the interactive legend.
func (b *Base) Interactive() bool { return b.interactive }

// Destroyed reports whether Destroy was called.
func (b *Base) Destroyed() bool { return b.destroyed }

// Begin starts an update. It returns the data view to render, or false when
// the visual is not ready or there is nothing to show, in which case the
// previous output has been cleared.
func (b *Base) Begin(opts UpdateOptions) (*dataview.DataView, bool) {
	if !b.initialized || b.destroyed {
		return nil, false
	}
	if !opts.Viewport.Empty() {
		b.viewport = opts.Viewport
		b.rec.Resize(opts.Viewport)
	}
	dv := opts.DataView()
	if dv == nil || dv.Shape() == dataview.ShapeEmpty {
		if dv != nil {
			b.settings = settings.Parse(b.schema, dv.Objects())
		}
		b.Clear(opts.SuppressAnimations)
		return nil, false
	}
	b.pending = settings.Parse(b.schema, dv.Objects())
	return dv, true
}

// Commit adopts the settings parsed by Begin. [Base.Convert] commits kept
// updates itself; visuals that do not convert call Commit after Begin.
func (b *Base) Commit() {
	b.settings = b.pending
}

// Convert runs the converter with the instance's colors, selection, locale
// and schema. It returns false when the update must be discarded; warnings
// have been reported by then and the previous render stays on screen.
func (b *Base) Convert(dv *dataview.DataView, opts convert.Options) (*convert.Result, bool) {
	hooks := observability.Visual()
	rows := 0
	if dv.Categorical != nil {
		rows = dv.Categorical.Rows()
	}
	hooks.OnConvertStart(b.Context(), b.name, rows)
	start := time.Now()

	opts.Visual = b.name
	opts.Colors = b.colors
	opts.Selection = b.service.Selection()
	opts.Locale = b.locale
	opts.Schema = b.schema
	res := convert.Convert(dv, opts)
	hooks.OnConvertComplete(b.Context(), b.name, len(res.Points), time.Since(start))

	b.Warn(res.Warnings...)
	if res.Discard {
		b.report.Discarded = true
		return res, false
	}
	b.settings = res.Settings
	b.report.Discarded = false
	return res, true
}

// Bind hands the converted points to the selection service, which updates
// their selected flag and opacity on every interaction.
func (b *Base) Bind(points []chart.DataPoint, legend []chart.LegendDataPoint, partialHighlights bool) {
	b.service.Bind(points, legend, partialHighlights)
}

// Warn reports warnings to the host.
func (b *Base) Warn(warnings ...errors.Warning) {
	if len(warnings) == 0 {
		return
	}
	for _, w := range warnings {
		b.logger.Warn(w.Title, "code", w.Code, "detail", w.Detail)
		observability.Visual().OnWarning(b.Context(), b.name, string(w.Code))
	}
	if b.host != nil {
		b.host.Warn(b.name, warnings)
	}
}

// Draw reconciles the surface with shapes and records the change counts.
func (b *Base) Draw(shapes []render.Shape, suppress bool) render.Changes {
	start := time.Now()
	ch := b.rec.Update(shapes, suppress)
	var err error
	if suppress {
		err = b.rec.Flush()
	} else {
		_, err = b.rec.Frame()
	}
	if err != nil {
		b.logger.Error("draw failed", "error", err)
	}
	b.report.Entered, b.report.Updated, b.report.Exited = len(ch.Enter), len(ch.Update), len(ch.Exit)
	observability.Visual().OnRenderComplete(b.Context(), b.name, len(ch.Enter), len(ch.Update), len(ch.Exit), time.Since(start))
	return ch
}

// Clear removes every shape and resets the report.
func (b *Base) Clear(suppress bool) {
	b.service.Bind(nil, nil, false)
	b.report = Report{Visual: b.name}
	if b.rec != nil {
		b.Draw(nil, suppress)
	}
}

// Record stores the model of the last update in the report.
func (b *Base) Record(points []chart.DataPoint, legend []chart.LegendDataPoint, agg chart.Aggregates, visibleLabels int) {
	b.report.Points = points
	b.report.Legend = legend
	b.report.Aggregates = agg
	b.report.Labels = visibleLabels
}

// Report implements Reporter.
func (b *Base) Report() Report { return b.report }

// Frame implements Animator.
func (b *Base) Frame() (int, error) {
	if b.rec == nil || b.destroyed {
		return 0, nil
	}
	return b.rec.Frame()
}

// Animating implements Animator.
func (b *Base) Animating() bool {
	return b.rec != nil && !b.destroyed && b.rec.Animating()
}

// Shapes returns the shapes currently on screen.
func (b *Base) Shapes() []render.Shape {
	if b.rec == nil {
		return nil
	}
	return b.rec.Shapes()
}

// EnumerateObjectInstances implements Visual.
func (b *Base) EnumerateObjectInstances(object string) []ObjectInstance {
	props := b.settings.Enumerate(object)
	if props == nil {
		return nil
	}
	return []ObjectInstance{{ObjectName: object, Properties: props}}
}

// OnClearSelection implements Visual.
func (b *Base) OnClearSelection() {
	if b.destroyed {
		return
	}
	b.service.Reset()
	b.rerender()
}

// Click implements Pointer.
func (b *Base) Click(id dataview.Identity, multi bool) {
	if b.destroyed {
		return
	}
	b.service.Click(id, multi)
	b.rerender()
}

// ClearBackground implements Pointer.
func (b *Base) ClearBackground() {
	if b.destroyed {
		return
	}
	b.service.ClearBackground()
	b.rerender()
}

// Hover implements Pointer.
func (b *Base) Hover(id dataview.Identity) { b.service.Hover(id) }

// Leave implements Pointer.
func (b *Base) Leave() { b.service.Leave() }

// Destroy implements Visual.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	if b.cancel != nil {
		b.cancel()
	}
	if b.rec != nil {
		b.rec.Destroy()
	}
	b.service.Close()
	b.redraw = nil
}

func (b *Base) rerender() {
	if b.redraw != nil {
		b.redraw(false)
	}
}

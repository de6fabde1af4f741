package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/chartpack/pkg/color"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// Render draws opts.DataView with a fresh instance of opts.Visual and
// returns the SVG document and the report. Animations are suppressed; a
// visual that resolves external data does so before the update.
func Render(ctx context.Context, reg *visual.Registry, host *visual.Recorder, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(reg); err != nil {
		return nil, err
	}
	v, err := reg.New(opts.Visual)
	if err != nil {
		return nil, err
	}
	if host == nil {
		host = &visual.Recorder{}
	}
	surface := render.NewSVGSurface()
	v.Init(visual.InitOptions{
		Host:     host,
		Surface:  surface,
		Viewport: opts.Viewport(),
		Palette:  color.Palette(opts.Palette),
		Locale:   format.ParseLocale(opts.Locale),
		Logger:   opts.Logger,
		Context:  ctx,
	})
	defer v.Destroy()

	if p, ok := v.(visual.Prefetcher); ok {
		if err := p.Prefetch(ctx, opts.DataView); err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "prefetch %s", opts.Visual)
		}
	}
	v.Update(visual.UpdateOptions{
		DataViews:          []*dataview.DataView{opts.DataView},
		Viewport:           opts.Viewport(),
		SuppressAnimations: true,
	})

	svg := surface.Bytes()
	if svg == nil {
		// Nothing was drawn, e.g. the first update was discarded.
		if err := surface.Begin(opts.Viewport()); err != nil {
			return nil, err
		}
		if err := surface.End(); err != nil {
			return nil, err
		}
		svg = surface.Bytes()
	}

	res := &Result{SVG: svg, Warnings: host.Warnings()}
	if r, ok := v.(visual.Reporter); ok {
		res.Report = r.Report()
		res.Legend = res.Report.Legend
		res.Stats.Points = len(res.Report.Points)
		res.Stats.Labels = res.Report.Labels
	}
	if s, ok := v.(interface{ Shapes() []render.Shape }); ok {
		res.Stats.Shapes = len(s.Shapes())
	}
	return res, nil
}

// Export converts an SVG document into format.
func Export(ctx context.Context, svg []byte, f string, scale float64, report visual.Report) ([]byte, error) {
	switch f {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return render.ToPNG(ctx, svg, scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	case FormatJSON:
		return json.MarshalIndent(report, "", "  ")
	default:
		return nil, ValidateFormat(f)
	}
}

// Objects returns the effective settings of object after rendering
// opts.DataView, for property panes.
func Objects(ctx context.Context, reg *visual.Registry, opts Options, object string) ([]visual.ObjectInstance, error) {
	if err := opts.ValidateAndSetDefaults(reg); err != nil {
		return nil, err
	}
	info, _ := reg.Lookup(opts.Visual)
	if _, ok := info.Schema.Object(object); !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "visual %q has no object %q (objects: %v)", opts.Visual, object, info.Schema.Names())
	}
	v, err := reg.New(opts.Visual)
	if err != nil {
		return nil, err
	}
	v.Init(visual.InitOptions{Host: &visual.Recorder{}, Viewport: opts.Viewport(), Logger: opts.Logger, Context: ctx})
	defer v.Destroy()
	v.Update(visual.UpdateOptions{DataViews: []*dataview.DataView{opts.DataView}, Viewport: opts.Viewport(), SuppressAnimations: true})
	return v.EnumerateObjectInstances(object), nil
}

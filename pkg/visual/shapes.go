package visual

import (
	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/labels"
	"github.com/matzehuels/chartpack/pkg/render"
)

// Shape classes shared by the plugins.
const (
	ClassSlice     = "slice"
	ClassHighlight = "highlight"
	ClassColumn    = "column"
	ClassBar       = "bar"
	ClassBubble    = "bubble"
	ClassLabel     = "label"
	ClassLeader    = "leader"
	ClassAxis      = "axis"
	ClassTick      = "tick"
	ClassTitle     = "title"
)

// ArcShape draws an angular point.
func ArcShape(p *chart.DataPoint) render.Shape {
	g := p.Geometry
	return render.Shape{
		Key:   string(p.Identity),
		Kind:  render.KindArc,
		Class: ClassSlice,
		Attrs: render.Attrs{
			X:           g.Center.X,
			Y:           g.Center.Y,
			StartAngle:  g.StartAngle,
			EndAngle:    g.EndAngle,
			InnerRadius: g.InnerRadius,
			OuterRadius: g.OuterRadius,
			Fill:        p.Color,
			Stroke:      "#ffffff",
			StrokeWidth: 1,
			Opacity:     p.Opacity,
		},
	}
}

// RectShape draws a rectangle.
func RectShape(key, class string, r chart.Rect, fill string, opacity float64) render.Shape {
	return render.Shape{
		Key:   key,
		Kind:  render.KindRect,
		Class: class,
		Attrs: render.Attrs{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, Fill: fill, Opacity: opacity},
	}
}

// TextShape draws a text run anchored at pt.
func TextShape(key, class string, pt chart.Point, text string, fontSize float64, fill, anchor string) render.Shape {
	return render.Shape{
		Key:   key,
		Kind:  render.KindText,
		Class: class,
		Attrs: render.Attrs{X: pt.X, Y: pt.Y, Text: text, FontSize: fontSize, Fill: fill, Anchor: anchor, Opacity: 1},
	}
}

// LineShape draws a straight stroke.
func LineShape(key, class string, from, to chart.Point, stroke string, width float64) render.Shape {
	return render.Shape{
		Key:   key,
		Kind:  render.KindLine,
		Class: class,
		Attrs: render.Attrs{X: from.X, Y: from.Y, X2: to.X, Y2: to.Y, Stroke: stroke, StrokeWidth: width, Opacity: 1},
	}
}

// LabelShapes draws the visible labels of a placement and their leader
// lines. Keys derive from the candidate IDs.
func LabelShapes(placed []labels.Placed, fontSize float64, fill string) []render.Shape {
	var out []render.Shape
	for _, p := range placed {
		if !p.Visible {
			continue
		}
		out = append(out, TextShape("label:"+p.ID, ClassLabel, p.Box.Center(), p.Text, fontSize, fill, "middle"))
		if p.Leader != nil {
			out = append(out, LineShape("leader:"+p.ID, ClassLeader, p.Leader.From, p.Leader.To, fill, 1))
		}
	}
	return out
}

package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/chartpack/pkg/chart"
)

const fontFamily = `font-family="Segoe UI,Helvetica Neue,Helvetica,Arial,sans-serif"`

// SVGSurface renders frames into an SVG document. The document of the last
// completed frame is available from Bytes.
type SVGSurface struct {
	// Background fills the viewport when set.
	Background string

	buf    bytes.Buffer
	canvas *svg.SVG
	last   []byte
}

// NewSVGSurface returns an empty surface.
func NewSVGSurface() *SVGSurface { return &SVGSurface{} }

// Begin implements Surface.
func (s *SVGSurface) Begin(vp chart.Viewport) error {
	s.buf.Reset()
	s.canvas = svg.New(&s.buf)
	w, h := int(math.Ceil(vp.Width)), int(math.Ceil(vp.Height))
	s.canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h), fontFamily)
	if s.Background != "" {
		s.canvas.Rect(0, 0, w, h, "fill:"+s.Background)
	}
	return nil
}

// Draw implements Surface.
func (s *SVGSurface) Draw(sh Shape) error {
	if s.canvas == nil {
		return fmt.Errorf("svg surface: Draw before Begin")
	}
	a := sh.Attrs
	attrs := []string{fmt.Sprintf(`id="%s"`, escape(sh.Key))}
	if sh.Class != "" {
		attrs = append(attrs, fmt.Sprintf(`class="%s"`, escape(sh.Class)))
	}
	attrs = append(attrs, style(a))

	switch sh.Kind {
	case KindArc:
		s.canvas.Path(ArcPath(a.X, a.Y, a.InnerRadius, a.OuterRadius, a.StartAngle, a.EndAngle), attrs...)
	case KindRect:
		d := fmt.Sprintf("M%.2f %.2fh%.2fv%.2fh%.2fZ", a.X, a.Y, a.Width, a.Height, -a.Width)
		s.canvas.Path(d, attrs...)
	case KindCircle:
		s.canvas.Circle(round(a.X), round(a.Y), round(a.Radius), attrs...)
	case KindLine:
		d := fmt.Sprintf("M%.2f %.2fL%.2f %.2f", a.X, a.Y, a.X2, a.Y2)
		s.canvas.Path(d, append(attrs, `fill="none"`)...)
	case KindText:
		if a.Anchor != "" {
			attrs = append(attrs, fmt.Sprintf(`text-anchor="%s"`, a.Anchor))
		}
		if a.FontSize > 0 {
			attrs = append(attrs, fmt.Sprintf(`font-size="%.1f"`, a.FontSize))
		}
		attrs = append(attrs, `dy=".35em"`)
		s.canvas.Text(round(a.X), round(a.Y), a.Text, attrs...)
	default:
		return fmt.Errorf("svg surface: unknown shape kind %q", sh.Kind)
	}
	return nil
}

// End implements Surface.
func (s *SVGSurface) End() error {
	if s.canvas == nil {
		return fmt.Errorf("svg surface: End before Begin")
	}
	s.canvas.End()
	s.last = bytes.Clone(s.buf.Bytes())
	s.canvas = nil
	return nil
}

// Bytes returns the document of the last completed frame.
func (s *SVGSurface) Bytes() []byte { return s.last }

// ArcPath returns the SVG path of an annular sector centered at (cx, cy).
// Angles are in radians, clockwise from 12 o'clock. A zero inner radius
// draws a pie slice; a full turn draws a closed ring.
func ArcPath(cx, cy, inner, outer, start, end float64) string {
	span := end - start
	if span <= 0 || outer <= 0 {
		return fmt.Sprintf("M%.2f %.2fZ", cx, cy)
	}
	if span >= 2*math.Pi-1e-9 {
		// A single arc command cannot draw a full circle.
		mid := start + math.Pi
		return ArcPath(cx, cy, inner, outer, start, mid) + ArcPath(cx, cy, inner, outer, mid, start+2*math.Pi)
	}
	large := 0
	if span > math.Pi {
		large = 1
	}
	p := func(r, a float64) (float64, float64) {
		return cx + r*math.Sin(a), cy - r*math.Cos(a)
	}
	x0, y0 := p(outer, start)
	x1, y1 := p(outer, end)
	var b strings.Builder
	fmt.Fprintf(&b, "M%.2f %.2fA%.2f %.2f 0 %d 1 %.2f %.2f", x0, y0, outer, outer, large, x1, y1)
	if inner > 0 {
		x2, y2 := p(inner, end)
		x3, y3 := p(inner, start)
		fmt.Fprintf(&b, "L%.2f %.2fA%.2f %.2f 0 %d 0 %.2f %.2f", x2, y2, inner, inner, large, x3, y3)
	} else {
		fmt.Fprintf(&b, "L%.2f %.2f", cx, cy)
	}
	b.WriteString("Z")
	return b.String()
}

func style(a Attrs) string {
	var parts []string
	fill := a.Fill
	if fill == "" {
		fill = "none"
	}
	parts = append(parts, "fill:"+fill)
	if a.Opacity < 1 {
		parts = append(parts, fmt.Sprintf("opacity:%.3f", math.Max(0, a.Opacity)))
	}
	if a.Stroke != "" {
		parts = append(parts, "stroke:"+a.Stroke)
		w := a.StrokeWidth
		if w == 0 {
			w = 1
		}
		parts = append(parts, fmt.Sprintf("stroke-width:%.2f", w))
	}
	return strings.Join(parts, ";")
}

func escape(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}

func round(f float64) int { return int(math.Round(f)) }

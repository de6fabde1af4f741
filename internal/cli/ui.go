package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/errors"
	"github.com/matzehuels/chartpack/pkg/pipeline"
)

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as a visual name.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleAccent renders inline emphasis.
	StyleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)
	// StyleText renders primary values.
	StyleText = lipgloss.NewStyle().Foreground(colorText)
	// StyleOK renders success marks.
	StyleOK = lipgloss.NewStyle().Foreground(colorOK)
	// StyleWarn renders warnings.
	StyleWarn = lipgloss.NewStyle().Foreground(colorWarn)
)

const (
	markOK    = "✓"
	markWarn  = "!"
	markInfo  = "›"
	markFile  = "→"
	markPoint = "●"
)

// printer writes styled status lines for humans. Machine output (JSON,
// artifacts on stdout) bypasses it.
type printer struct {
	w io.Writer
}

func (p printer) line(mark lipgloss.Style, icon, format string, args ...any) {
	fmt.Fprintln(p.w, mark.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func (p printer) success(format string, args ...any) { p.line(StyleOK, markOK, format, args...) }
func (p printer) info(format string, args ...any)    { p.line(StyleDim, markInfo, format, args...) }

func (p printer) warn(format string, args ...any) {
	p.line(StyleWarn, markWarn, "%s", StyleWarn.Render(fmt.Sprintf(format, args...)))
}

func (p printer) warning(w errors.Warning) {
	p.warn("%s", w.Message)
	if w.Detail != "" {
		p.detail("%s", w.Detail)
	}
}

func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(markFile)+" "+StyleText.Render(path))
}

// stats prints one summary line, e.g. "5 points · 4 labels · 23 shapes · cached".
func (p printer) stats(s pipeline.Stats, cached bool) {
	var parts []string
	for _, c := range []struct {
		n    int
		unit string
	}{{s.Points, "points"}, {s.Labels, "labels"}, {s.Shapes, "shapes"}} {
		if c.n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", c.n, c.unit)))
		}
	}
	if cached {
		parts = append(parts, StyleOK.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(p.w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// legend prints the legend entries with a swatch in each entry's color.
func (p printer) legend(entries []chart.LegendDataPoint) {
	for _, e := range entries {
		fmt.Fprintln(p.w, "  "+swatch(e.Color)+" "+StyleText.Render(e.Label))
	}
}

func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(markPoint)
}

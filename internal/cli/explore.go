package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/color"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/pipeline"
	"github.com/matzehuels/chartpack/pkg/render"
	"github.com/matzehuels/chartpack/pkg/visual"
)

// swipeStep is the legend swipe distance of one arrow key press.
const swipeStep = 80.0

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
)

// exploreCommand creates the explore command, an interactive legend for
// one visual in the terminal.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		flags       renderFlags
		output      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "explore [dataview.json]",
		Short: "Explore a visual's legend and selection interactively",
		Long: `Explore a visual's legend and selection interactively.

Keys:
  ↑/↓ j/k     move the legend cursor
  enter       select the entry under the cursor
  space       add the entry to the selection
  esc         clear the selection
  ←/→ h/l     swipe the interactive legend (donut --interactive)
  w           write the current frame as SVG
  q           quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dv, err := loadDataView(args[0])
			if err != nil {
				return err
			}
			opts, err := flags.options(c, dv)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(c.Registry); err != nil {
				return err
			}
			if output == "" {
				output = basePath("", args[0]) + ".svg"
			}
			m, err := newExploreModel(c.Registry, opts, interactive, output)
			if err != nil {
				return err
			}
			defer m.close()

			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	flags.register(c, cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG written by 'w' (default: input name with .svg)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "use the rotating legend where the visual supports one")
	return cmd
}

// selectionLog is the explore host's selection manager.
type selectionLog struct {
	mu  sync.Mutex
	ids []dataview.Identity
}

func (s *selectionLog) Select(ids []dataview.Identity, _ bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = append([]dataview.Identity(nil), ids...)
}

func (s *selectionLog) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

func (s *selectionLog) selected() map[dataview.Identity]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[dataview.Identity]bool, len(s.ids))
	for _, id := range s.ids {
		out[id] = true
	}
	return out
}

// swiper is implemented by visuals with a swipeable legend.
type swiper interface {
	Swipe(dx float64)
	Focused() int
}

// exploreModel is the bubbletea model of the explore command.
type exploreModel struct {
	v         visual.Visual
	surface   *render.SVGSurface
	clock     *render.ManualClock
	host      *visual.Recorder
	selection *selectionLog

	name   string
	output string
	legend []chart.LegendDataPoint
	cursor int
	status string
}

func newExploreModel(reg *visual.Registry, opts pipeline.Options, interactive bool, output string) (*exploreModel, error) {
	v, err := reg.New(opts.Visual)
	if err != nil {
		return nil, err
	}
	m := &exploreModel{
		v:         v,
		surface:   render.NewSVGSurface(),
		clock:     render.NewManualClock(time.Now()),
		selection: &selectionLog{},
		name:      opts.Visual,
		output:    output,
	}
	m.host = &visual.Recorder{Selection: m.selection}
	v.Init(visual.InitOptions{
		Host:        m.host,
		Surface:     m.surface,
		Viewport:    opts.Viewport(),
		Palette:     color.Palette(opts.Palette),
		Locale:      format.ParseLocale(opts.Locale),
		Clock:       m.clock,
		Logger:      opts.Logger,
		Interactive: interactive,
	})
	v.Update(visual.UpdateOptions{
		DataViews:          []*dataview.DataView{opts.DataView},
		Viewport:           opts.Viewport(),
		SuppressAnimations: true,
	})
	m.refresh()
	for _, w := range m.host.Warnings() {
		m.status = w.Message
	}
	return m, nil
}

func (m *exploreModel) close() { m.v.Destroy() }

// settle finishes running transitions and reloads the legend.
func (m *exploreModel) settle() {
	if a, ok := m.v.(visual.Animator); ok {
		m.clock.Advance(time.Second)
		_, _ = a.Frame()
	}
	m.refresh()
}

func (m *exploreModel) refresh() {
	if r, ok := m.v.(visual.Reporter); ok {
		m.legend = r.Report().Legend
	}
	if m.cursor >= len(m.legend) {
		m.cursor = max(0, len(m.legend)-1)
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.legend)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.click(key.String() == " ")
	case "esc":
		if p, ok := m.v.(visual.Pointer); ok {
			p.ClearBackground()
			m.settle()
			m.status = "selection cleared"
		}
	case "left", "h":
		m.swipe(swipeStep)
	case "right", "l":
		m.swipe(-swipeStep)
	case "w":
		m.write()
	}
	return m, nil
}

func (m *exploreModel) click(multi bool) {
	p, ok := m.v.(visual.Pointer)
	if !ok || len(m.legend) == 0 {
		return
	}
	p.Click(m.legend[m.cursor].Identity, multi)
	m.settle()
	if s, ok := m.v.(swiper); ok && s.Focused() >= 0 {
		m.cursor = s.Focused()
	}
	m.status = fmt.Sprintf("%d selected", len(m.selection.selected()))
}

func (m *exploreModel) swipe(dx float64) {
	s, ok := m.v.(swiper)
	if !ok || s.Focused() < 0 {
		m.status = m.name + " has no swipeable legend"
		return
	}
	s.Swipe(dx)
	m.settle()
	m.cursor = s.Focused()
	m.status = "focused " + m.legend[m.cursor].Label
}

func (m *exploreModel) write() {
	if err := os.WriteFile(m.output, m.surface.Bytes(), 0o644); err != nil {
		m.status = "write failed: " + err.Error()
		return
	}
	m.status = "wrote " + m.output
}

func (m *exploreModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.name))
	b.WriteString("\n\n")

	if len(m.legend) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		b.WriteString("\n")
	}
	selected := m.selection.selected()
	for i, entry := range m.legend {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = listSelectedStyle.Render("› ")
			style = listSelectedStyle
		}
		mark := " "
		if selected[entry.Identity] {
			mark = StyleOK.Render(markOK)
		}
		b.WriteString(cursor + swatch(entry.Color) + " " + mark + " " + style.Render(entry.Label) + "\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleDim.Render("  "+m.status) + "\n")
	}
	b.WriteString(listDimStyle.Render("  ↑/↓ move · enter select · space add · esc clear · ←/→ swipe · w write · q quit"))
	return b.String()
}

package visual

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/color"
	"github.com/matzehuels/chartpack/pkg/dataview"
	"github.com/matzehuels/chartpack/pkg/format"
	"github.com/matzehuels/chartpack/pkg/render"
)

// Visual is the capability set every chart plugin implements.
type Visual interface {
	// Init prepares the instance. Only the first call has any effect.
	Init(opts InitOptions)
	// Update runs convert, layout and render for the current data. Empty or
	// absent data views clear the output.
	Update(opts UpdateOptions)
	// EnumerateObjectInstances returns the effective settings of object, or
	// nil for objects the visual does not know.
	EnumerateObjectInstances(object string) []ObjectInstance
	// OnClearSelection is called when the host clears the selection.
	OnClearSelection()
	// Destroy stops timers and releases the surface. No callbacks fire
	// afterwards.
	Destroy()
}

// InitOptions configures a visual instance.
type InitOptions struct {
	Host     Host
	Surface  render.Surface
	Viewport chart.Viewport
	Palette  color.Palette
	Locale   language.Tag
	Measurer format.Measurer
	Clock    render.Clock
	Logger   *log.Logger
	// Context bounds background work such as location lookups.
	Context context.Context
	// Interactive requests the touch-friendly interactive legend where the
	// visual supports one.
	Interactive bool
}

// UpdateOptions is the input of one update.
type UpdateOptions struct {
	DataViews          []*dataview.DataView
	Viewport           chart.Viewport
	SuppressAnimations bool
}

// DataView returns the first data view, or nil.
func (o UpdateOptions) DataView() *dataview.DataView {
	if len(o.DataViews) == 0 {
		return nil
	}
	return o.DataViews[0]
}

// ObjectInstance is one entry of the host's property pane.
type ObjectInstance struct {
	ObjectName string            `json:"objectName"`
	Selector   dataview.Identity `json:"selector,omitempty"`
	Properties map[string]any    `json:"properties"`
}

// Report summarizes the last update for hosts that need more than pixels.
type Report struct {
	Visual     string                  `json:"visual"`
	Points     []chart.DataPoint       `json:"points,omitempty"`
	Legend     []chart.LegendDataPoint `json:"legend,omitempty"`
	Aggregates chart.Aggregates        `json:"aggregates"`
	Labels     int                     `json:"labels"`
	Entered    int                     `json:"entered"`
	Updated    int                     `json:"updated"`
	Exited     int                     `json:"exited"`
	Discarded  bool                    `json:"discarded,omitempty"`
}

// Reporter is implemented by visuals that expose their last [Report].
type Reporter interface {
	Report() Report
}

// Animator is implemented by visuals whose transitions the host advances
// frame by frame.
type Animator interface {
	Frame() (running int, err error)
	Animating() bool
}

// Pointer is implemented by visuals that accept pointer input.
type Pointer interface {
	Click(id dataview.Identity, multi bool)
	ClearBackground()
	Hover(id dataview.Identity)
	Leave()
}

// Prefetcher is implemented by visuals that can resolve external data
// ahead of an update, for one-shot renders that cannot wait for
// asynchronous re-renders.
type Prefetcher interface {
	Prefetch(ctx context.Context, dv *dataview.DataView) error
}

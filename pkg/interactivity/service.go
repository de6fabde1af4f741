package interactivity

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartpack/pkg/chart"
	"github.com/matzehuels/chartpack/pkg/dataview"
)

// SelectionHost is the host's selection manager. It is told about every
// selection change so it can cross-filter other visuals.
type SelectionHost interface {
	Select(ids []dataview.Identity, multi bool)
	Clear()
}

// Service owns the selection of one visual instance. A nil *Service is a
// valid no-op.
type Service struct {
	host    SelectionHost
	logger  *log.Logger
	sel     *Selection
	machine *machine
	hovered dataview.Identity
	points  []chart.DataPoint
	legend  []chart.LegendDataPoint
	partial bool
}

// NewService returns a service reporting to host (may be nil).
func NewService(host SelectionHost, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	m, err := newMachine()
	if err != nil {
		return nil, err
	}
	return &Service{host: host, logger: logger, sel: NewSelection(), machine: m}, nil
}

// Selection returns the current selection.
func (s *Service) Selection() *Selection {
	if s == nil {
		return nil
	}
	return s.sel
}

// State returns the gesture state.
func (s *Service) State() State {
	if s == nil {
		return StateIdle
	}
	return s.machine.state()
}

// Bind attaches the points and legend of the current render. Their selected
// flags and opacity are re-applied on every selection change. Identities that
// no longer exist are dropped from the selection.
func (s *Service) Bind(points []chart.DataPoint, legend []chart.LegendDataPoint, hasPartialHighlights bool) {
	if s == nil {
		return
	}
	s.points, s.legend, s.partial = points, legend, hasPartialHighlights
	known := make(map[dataview.Identity]bool, len(points)+len(legend))
	for _, p := range points {
		known[p.Identity] = true
	}
	for _, l := range legend {
		known[l.Identity] = true
	}
	var keep []dataview.Identity
	for _, id := range s.sel.IDs() {
		if known[id] {
			keep = append(keep, id)
		}
	}
	if len(keep) != s.sel.Len() {
		s.sel.Set(keep...)
	}
	s.apply()
}

// Click toggles id in the selection. multi is set when the modifier key is
// held.
func (s *Service) Click(id dataview.Identity, multi bool) {
	if s == nil {
		return
	}
	s.sel.Toggle(id, multi)
	s.logger.Debug("selection changed", "id", id, "multi", multi, "selected", s.sel.Len())
	if s.host != nil {
		if s.sel.Empty() {
			s.host.Clear()
		} else {
			s.host.Select(s.sel.IDs(), multi)
		}
	}
	s.settle()
	s.apply()
}

// ClearBackground handles a click on the background catcher.
func (s *Service) ClearBackground() {
	if s == nil || s.sel.Empty() {
		return
	}
	s.sel.Clear()
	if s.host != nil {
		s.host.Clear()
	}
	s.settle()
	s.apply()
}

// Reset clears the selection without notifying the host, for the host's
// own clear-selection callback.
func (s *Service) Reset() {
	if s == nil {
		return
	}
	s.sel.Clear()
	s.settle()
	s.apply()
}

// Hover records the pointer entering a shape.
func (s *Service) Hover(id dataview.Identity) {
	if s == nil {
		return
	}
	s.hovered = id
	if s.machine.state() != StateDragging {
		s.settle()
	}
}

// Leave records the pointer leaving the hovered shape.
func (s *Service) Leave() {
	if s == nil {
		return
	}
	s.hovered = ""
	if s.machine.state() != StateDragging {
		s.settle()
	}
}

// Hovered returns the hovered identity.
func (s *Service) Hovered() dataview.Identity {
	if s == nil {
		return ""
	}
	return s.hovered
}

// Apply writes selection state and opacity into points.
func (s *Service) Apply(points []chart.DataPoint, hasPartialHighlights bool) {
	if s == nil {
		Apply(points, nil, hasPartialHighlights)
		return
	}
	Apply(points, s.sel, hasPartialHighlights)
}

// Close stops the gesture machine.
func (s *Service) Close() {
	if s == nil {
		return
	}
	s.machine.stop()
	s.points, s.legend = nil, nil
}

func (s *Service) beginDrag() {
	if s == nil {
		return
	}
	s.machine.moveTo(StateDragging)
}

func (s *Service) endDrag() {
	if s == nil {
		return
	}
	s.settle()
}

// settle moves the machine to the state implied by selection and hover.
func (s *Service) settle() {
	switch {
	case !s.sel.Empty():
		s.machine.moveTo(StateSelected)
	case s.hovered != "":
		s.machine.moveTo(StateHovering)
	default:
		s.machine.moveTo(StateIdle)
	}
}

func (s *Service) apply() {
	Apply(s.points, s.sel, s.partial)
	ApplyLegend(s.legend, s.sel)
}

package interactivity

import (
	"github.com/felixgeelhaar/statekit"
)

// State is the gesture state of a visual.
type State string

const (
	StateIdle     State = "idle"
	StateHovering State = "hovering"
	StateSelected State = "selected"
	StateDragging State = "draggingRotation"
)

const (
	stateIdle     statekit.StateID = statekit.StateID(StateIdle)
	stateHovering statekit.StateID = statekit.StateID(StateHovering)
	stateSelected statekit.StateID = statekit.StateID(StateSelected)
	stateDragging statekit.StateID = statekit.StateID(StateDragging)
)

// Events are named after their target state; the service decides the
// target and the machine records the move.
const (
	eventIdle   statekit.EventType = "IDLE"
	eventHover  statekit.EventType = "HOVER"
	eventSelect statekit.EventType = "SELECT"
	eventDrag   statekit.EventType = "DRAG"
)

const actionRecord = "record"

// gestureContext is the machine context.
type gestureContext struct {
	transitions int
	last        statekit.EventType
}

func recordTransition(ctx **gestureContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).transitions++
	(*ctx).last = event.Type
}

func newGestureMachine() (*statekit.MachineConfig[*gestureContext], error) {
	return statekit.NewMachine[*gestureContext]("interactivity").
		WithInitial(stateIdle).
		WithContext(&gestureContext{}).
		WithAction(actionRecord, recordTransition).
		State(stateIdle).
		On(eventHover).Target(stateHovering).Do(actionRecord).
		On(eventSelect).Target(stateSelected).Do(actionRecord).
		On(eventDrag).Target(stateDragging).Do(actionRecord).
		Done().
		State(stateHovering).
		On(eventIdle).Target(stateIdle).Do(actionRecord).
		On(eventSelect).Target(stateSelected).Do(actionRecord).
		On(eventDrag).Target(stateDragging).Do(actionRecord).
		Done().
		State(stateSelected).
		On(eventIdle).Target(stateIdle).Do(actionRecord).
		On(eventHover).Target(stateHovering).Do(actionRecord).
		On(eventDrag).Target(stateDragging).Do(actionRecord).
		Done().
		State(stateDragging).
		On(eventIdle).Target(stateIdle).Do(actionRecord).
		On(eventHover).Target(stateHovering).Do(actionRecord).
		On(eventSelect).Target(stateSelected).Do(actionRecord).
		Done().
		Build()
}

func eventFor(to State) statekit.EventType {
	switch to {
	case StateHovering:
		return eventHover
	case StateSelected:
		return eventSelect
	case StateDragging:
		return eventDrag
	default:
		return eventIdle
	}
}

// machine wraps the statekit interpreter.
type machine struct {
	interp *statekit.Interpreter[*gestureContext]
	ctx    *gestureContext
}

func newMachine() (*machine, error) {
	cfg, err := newGestureMachine()
	if err != nil {
		return nil, err
	}
	ctx := &gestureContext{}
	interp := statekit.NewInterpreter(cfg)
	interp.UpdateContext(func(c **gestureContext) {
		*c = ctx
	})
	interp.Start()
	return &machine{interp: interp, ctx: ctx}, nil
}

func (m *machine) state() State {
	return State(m.interp.State().Value)
}

// moveTo transitions to the target state; staying put is not a transition.
func (m *machine) moveTo(to State) {
	if m.state() == to {
		return
	}
	m.interp.Send(statekit.Event{Type: eventFor(to)})
}

func (m *machine) stop() { m.interp.Stop() }

// Package interactivity tracks selection and gesture state for a visual.
//
// A [Service] owns the selection set of one visual instance and re-applies
// selection opacity to the bound data points after every change. Its gesture
// state (idle, hovering, selected, dragging a rotation) is kept in a statekit
// machine. A nil *Service is valid and ignores every call: visuals whose host
// did not ask for interactivity simply never construct one.
//
// [Rotator] implements the touch-friendly interactive legend of angular
// visuals. Dragging rotates the chart around its center and re-focuses the
// slice under the focus angle; releasing snaps the focused slice into place
// and swallows the click that ends the drag. [Swipe] turns horizontal legend
// swipes into index steps.
package interactivity

// Package layout computes geometry for converted data points.
//
// Angular visuals (donut, aster) get cumulative arcs in the order the points
// were converted; nothing is sorted, so repeated renders join on the same
// shapes. Cartesian visuals (tornado, histogram) map values through a
// [LinearScale]. A forced axis start or end clips values outside the forced
// domain instead of rescaling, and a degenerate domain (min == max) maps to
// the full range.
//
// Shapes never collapse to nothing: columns and bars are floored at a
// minimum size so zero values stay visible as a sliver.
package layout

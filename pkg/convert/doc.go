// Package convert maps an immutable data view into render-ready data points.
//
// [Convert] is a pure function of its inputs. It picks a strategy from the
// data view shape, in priority order:
//
//   - category: one point per category row and value series
//   - series: one point per series group, when there is no category
//   - measures: one point per measure column
//
// Percentages are taken against the absolute total, so negative values take
// up space in proportion to their magnitude. A zero total yields an empty
// result rather than NaN geometry.
//
// Highlights are handled globally. If any highlight exceeds its base value,
// every point switches to highlight values and the highlight total; the
// result is never a per-point mix. Otherwise each point carries a highlight
// ratio floored to [HighlightEpsilon] so an empty highlight still has a
// visible arc to animate to and from.
//
// Structural problems never surface as errors. An absent or malformed view
// yields an empty result, non-finite inputs are treated as zero, and a result
// whose totals are still not finite carries an invalid-values warning.
package convert

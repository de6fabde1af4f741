// Package render reconciles visual shapes with a drawing surface.
//
// Every update hands the [Reconciler] the complete keyed shape set of the
// next frame. [Diff] splits the keys into three disjoint sets: entering,
// updating and exiting. Attribute changes are driven by a [Scheduler], an
// arena of tweens indexed by key. Starting a tween for a key that is still
// animating re-targets it from its current interpolated value, so a fast
// sequence of updates never queues animations.
//
// Shapes are drawn through the [Surface] interface. [SVGSurface] writes SVG
// documents with svgo; [ToPNG] and [ToPDF] convert them with rsvg-convert.
//
//	r := render.NewReconciler(surface, render.RealClock{}, 250*time.Millisecond)
//	r.Update(shapes, false)
//	r.Flush()
//
// Arc removal is smoothed by [MergeExiting], which keeps exiting points as
// zero-valued placeholders so their slices collapse in place.
package render

// Package visual defines the lifecycle every chart plugin implements and
// the registry that maps a visual type tag to its factory.
//
// # Lifecycle
//
// A host creates a visual from the registry, calls [Visual.Init] once with
// the drawing surface and viewport, then [Visual.Update] whenever the data
// view or viewport changes. [Visual.EnumerateObjectInstances] feeds the
// host's property pane and [Visual.Destroy] releases timers and surfaces.
//
//	v, err := visual.Default.New("donut")
//	v.Init(visual.InitOptions{Host: host, Surface: surface, Viewport: vp})
//	v.Update(visual.UpdateOptions{DataViews: []*dataview.DataView{dv}, Viewport: vp})
//
// # Plugins
//
// Plugins live in subpackages and register themselves from init. Import
// [github.com/matzehuels/chartpack/pkg/visual/all] to register every
// built-in visual.
//
// # Base
//
// [Base] carries the state all plugins share: the reconciler driving the
// surface, the color resolver, the selection service, parsed settings and
// the last [Report]. Plugins embed it and add their own layout.
package visual

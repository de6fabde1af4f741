// Package pkg provides the core libraries of chartpack, a pack of chart
// visuals that render categorical data views.
//
// # Overview
//
// A host hands a visual a [dataview] table: category columns, measure
// columns (optionally grouped by a series column), highlight values and
// user-configured settings objects. The visual converts it into data
// points, lays them out, places labels and renders a keyed diff of shapes
// onto a surface. The pkg directory is organized into four main areas:
//
//  1. Input - [dataview], [settings], [format], [color]
//  2. Engines - [convert], [layout], [labels], [interactivity], [render]
//  3. Visuals - [visual] and its plugins (donut, aster, tornado, histogram,
//     globemap), with [geo] for map locations
//  4. Infrastructure - [cache], [pipeline], [observability], [errors]
//
// # Architecture
//
// The data flow of one update:
//
//	DataView + settings objects
//	         ↓
//	    [convert] (data points, legend, warnings)
//	         ↓
//	    [layout] + [labels] (arcs, bars, bins, projected points, label boxes)
//	         ↓
//	    [interactivity] (selection and highlight opacity)
//	         ↓
//	    [render] (keyed enter/update/exit diff, tweens, SVG surface)
//
// # Quick Start
//
// Render a donut headlessly:
//
//	import (
//	    "github.com/matzehuels/chartpack/pkg/dataview"
//	    "github.com/matzehuels/chartpack/pkg/pipeline"
//	    _ "github.com/matzehuels/chartpack/pkg/visual/all"
//	)
//
//	dv := dataview.NewBuilder().
//	    Category("Region", "North", "South").
//	    Measure("Sales", 30.0, 70.0).
//	    Build()
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(ctx, pipeline.Options{Visual: "donut", DataView: dv})
//	os.WriteFile("sales.svg", result.SVG, 0o644)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/visual/...             # Visuals only
//	go test ./pkg/pipeline -run Examples # Render the files under examples/
package pkg

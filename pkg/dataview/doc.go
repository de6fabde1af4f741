// Package dataview defines the columnar input every visual consumes.
//
// A [DataView] is supplied by the host on every update and is treated as
// immutable. Its categorical section holds grouping columns (categories) with
// stable [Identity] tokens, and measure columns (values) that are optionally
// grouped by a dynamic series column. Each measure column may carry a parallel
// highlights slice describing the cross-filtered subset of each value.
//
// User-configured formatting lives in Metadata.Objects, a two-level bag
// (object name → property name → value) that visuals parse into typed
// settings with the settings package.
//
// Identities are opaque: they correlate data across updates and are never
// array indices. Use [CombineIdentities] to key a (category × series) pair.
package dataview

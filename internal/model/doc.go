// Package model defines the core data structures used throughout topsites.
//
// This package contains the following main types:
//   - SiteRecord: One visited location with its ranking signals
//   - Watermark / Watermarks: Cached lower bounds that shrink the candidate pool
//   - Computation: The mutable carrier passed through the ranking pipeline
//   - Grid: The final ordered, position-addressable output
//   - GridReport: A grid plus the metadata report writers need
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (database, pipeline, topsites, report) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model

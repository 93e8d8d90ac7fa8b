// Package fmecadb defines the failure-mode database and the caller-supplied
// overlays that feed graph compilation.
//
// A Database is an ordered list of node records. Record order is significant:
// it fixes the canonical node order that every downstream index, label
// position and overlay alignment is derived from. Each record names its
// parent by id; an empty parent marks a root and the ".." sentinel refers to
// the record declared immediately before it, which keeps long causal chains
// readable in hand-written files.
//
// Overlays attach loosely-typed data to records by id: raw measurement
// samples (ValueMap), explicit edge weights (WeightMap), display names
// (NameOverlay), placeholder label templates (PlaceholderOverlay) and
// terminal annotations (Annotations). Overlays are plain maps with no
// ordering guarantees of their own; the compiler realigns them to database
// order and validates their key sets.
//
// # File Format
//
// Load reads a database plus overlays from one YAML document:
//
//	nodes:
//	  - id: pump
//	  - id: seal
//	    parent: pump
//	  - id: leak
//	    parent: ..
//	    terminal: true
//	values:
//	  pump: 0.1
//	  seal: [2.5, 3.0]
//	  leak: 4.2
//	terminals:
//	  leak: External leakage
//	scale:
//	  min: 0
//	  max: 10
//	  colormap: hot
//
// Sample lists accept a bare scalar as shorthand for a single-element list.
// Overlay sections that are not mappings, and samples that are not numeric,
// fail with ErrInvalidOverlayType. The optional scale block carries color
// range bounds and a colormap name as plain document data (ScaleDoc); the
// compiler resolves the name against its built-in maps.
package fmecadb

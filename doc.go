// Package fmeca compiles a hierarchical failure-mode database (a FMECA:
// Failure Mode, Effects and Criticality Analysis) into a weighted directed
// graph annotated with per-node visual attributes, ready to be handed to a
// graph-rendering engine.
//
// The compiler reconciles the database's fixed schema with several
// loosely-typed overlays supplied by the caller: raw measurement values,
// explicit or automatically derived edge weights, alternate display names,
// placeholder label templates, and terminal annotations that materialize as
// synthesized sink nodes. Cross-referential invariants between the database
// id set and every overlay are enforced before any graph structure is
// built.
//
// # Pipeline
//
// Compilation is a single-pass, stateless pipeline:
//
//   - Schema normalization: overlays are validated against the database id
//     set and re-ordered to its declaration order
//   - Value reduction: multi-sample values collapse to one scalar per node
//     and unset color range bounds resolve from the data
//   - Topology derivation: parent references become an index and ordered
//     children lists
//   - Weight resolution: explicit per-node weights, or telescoping
//     root-to-node differences of reduced values
//   - Terminal synthesis: validated annotations become virtual sink nodes
//   - Color mapping: reduced values interpolate through a colormap, with
//     out-of-range values flagged and styled separately
//   - Label encoding: parallel render and copy label sets, with positions
//     embedded in placeholder labels for later recovery
//   - Assembly: everything composes into one CompiledGraph artifact
//
// Any stage failure aborts the whole run with a CompileError naming the
// stage; no partial graph is ever returned.
//
// # Getting Started
//
// Build a database, compile it, and hand the result to a renderer:
//
//	db, err := fmecadb.New(
//		fmecadb.Record{ID: "pump"},
//		fmecadb.Record{ID: "seal", Parent: "pump"},
//		fmecadb.Record{ID: "leak", Parent: "seal", Terminal: true},
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	g, err := fmeca.Compile(ctx, db,
//		fmeca.WithValues(fmecadb.ValueMap{
//			"pump": {0.2},
//			"seal": {2.5, 3.0},
//			"leak": {4.2},
//		}),
//		fmeca.WithAnnotations(fmecadb.Annotations{"leak": "External leakage"}),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Databases and overlays can also be loaded from YAML with fmecadb.Load or
// compiled directly from a file with CompileFile.
//
// # Customization
//
// Every pipeline stage sits behind an interface and can be replaced through
// a construction option (WithNormalizer, WithWeightResolver, ...). Per-run
// behavior is configured through compile options: overlays, the reduction
// operation (including CEL expressions via WithReductionExpr), automatic
// weight derivation, the color scale, label encoding rules and rendering
// style.
//
// # Observability
//
// The compiler logs through log/slog and optionally records OpenTelemetry
// traces and metrics when providers are supplied with WithTracerProvider
// and WithMeterProvider. Without providers both are disabled and
// compilation stays dependency-free at run time.
package fmeca

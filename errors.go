package fmeca

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Sentinel errors for common compilation failures.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrSchemaMismatch indicates an overlay whose key set does not line up
	// with the database id set. The wrapped SchemaError lists every
	// offending key.
	ErrSchemaMismatch = errors.New("overlay keys do not match database ids")

	// ErrInvalidTerminalAnnotation indicates a terminal annotation placed on
	// a node that is not flagged terminal. The wrapped AnnotationError lists
	// every offending id.
	ErrInvalidTerminalAnnotation = errors.New("terminal annotation on non-terminal node")

	// ErrInvalidConfig indicates the provided configuration is invalid or
	// incomplete.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Stage identifies the pipeline stage a compilation error was raised in.
type Stage string

// Pipeline stages in execution order.
const (
	// StageNormalize aligns overlays with the database schema.
	StageNormalize Stage = "normalize"

	// StageReduce collapses samples and resolves the color range.
	StageReduce Stage = "reduce"

	// StageTopology derives the parent/child adjacency.
	StageTopology Stage = "topology"

	// StageWeights resolves per-node outgoing edge weights.
	StageWeights Stage = "weights"

	// StageTerminals validates annotations and synthesizes virtual sinks.
	StageTerminals Stage = "terminals"

	// StageColors maps reduced values onto the color scale.
	StageColors Stage = "colors"

	// StageLabels encodes render and copy labels.
	StageLabels Stage = "labels"

	// StageAssemble composes the final graph artifact.
	StageAssemble Stage = "assemble"
)

// CompileError is a structured error that wraps a stage failure with the
// pipeline stage that produced it. Compilation is fail-fast: the first
// stage failure aborts the run and no partial graph is ever returned.
//
// CompileError implements the error interface and supports error
// unwrapping, making it compatible with errors.Is() and errors.As().
type CompileError struct {
	// Stage is the pipeline stage that failed.
	Stage Stage

	// Err is the underlying error that caused this error.
	Err error
}

// Error implements the error interface, returning a formatted message that
// includes the failing stage and the underlying error.
func (e *CompileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fmeca: %s stage failed", e.Stage)
	}
	return fmt.Sprintf("fmeca: %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error, allowing errors.Is() and errors.As()
// to work correctly with wrapped errors.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// StageOf returns the pipeline stage recorded on err, unwrapping as needed.
// The second return value is false when err carries no stage.
func StageOf(err error) (Stage, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Stage, true
	}
	return "", false
}

// stageErr wraps err with the stage it was raised in. A nil err stays nil.
func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &CompileError{Stage: stage, Err: err}
}

// SchemaError reports overlay keys that do not line up with the database id
// set. Missing holds database ids absent from the overlay (only reported
// for overlays that must cover every node); Unknown holds overlay keys that
// reference no database record. Both lists are complete, not first-hit.
type SchemaError struct {
	// Overlay names the offending overlay ("values", "weights", "names",
	// "placeholders" or "terminals").
	Overlay string

	// Missing lists database ids the overlay lacks, in database order.
	Missing []string

	// Unknown lists overlay keys with no database record, sorted.
	Unknown []string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s overlay does not match database ids", e.Overlay)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, "; missing: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Unknown) > 0 {
		fmt.Fprintf(&b, "; unknown: %s", strings.Join(e.Unknown, ", "))
	}
	return b.String()
}

// Is matches SchemaError against the ErrSchemaMismatch sentinel.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// AnnotationError reports terminal annotations that reference non-terminal
// nodes. IDs holds every offending id in database order; validation
// collects them all before failing once.
type AnnotationError struct {
	IDs []string
}

// Error implements the error interface.
func (e *AnnotationError) Error() string {
	return fmt.Sprintf("terminal annotations reference non-terminal nodes: %s", strings.Join(e.IDs, ", "))
}

// Is matches AnnotationError against the ErrInvalidTerminalAnnotation
// sentinel.
func (e *AnnotationError) Is(target error) bool {
	return target == ErrInvalidTerminalAnnotation
}

// CloseWithLog attempts to close the provided resource and logs any error
// at warning level. This is intended for use in defer statements to ensure
// cleanup errors are not silently ignored.
//
// The name parameter should describe the resource being closed (e.g.,
// "database file", "dot file"). If logger is nil, slog.Default() is used.
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}

package fmeca

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/hypatiad/FMECAengine"

// compileTelemetry holds the OpenTelemetry instruments for the compiler.
// These are created once during New and reused for all compilations.
type compileTelemetry struct {
	tracer trace.Tracer

	// durationHistogram records compilation duration in milliseconds
	durationHistogram metric.Float64Histogram

	// nodeCounter counts compiled nodes, primaries and virtuals together
	nodeCounter metric.Int64Counter

	// badCounter counts nodes styled through the bad-value path
	badCounter metric.Int64Counter

	// errorCounter counts failed compilations
	errorCounter metric.Int64Counter
}

// newCompileTelemetry creates the telemetry instruments. A nil provider
// leaves the matching instruments unset and recording skips them silently.
func newCompileTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*compileTelemetry, error) {
	t := &compileTelemetry{}

	if tp != nil {
		t.tracer = tp.Tracer(instrumentationName)
	}

	if mp != nil {
		meter := mp.Meter(instrumentationName)
		var err error

		t.durationHistogram, err = meter.Float64Histogram(
			"fmeca.compile.duration",
			metric.WithDescription("Compilation duration in milliseconds"),
			metric.WithUnit("ms"),
		)
		if err != nil {
			return nil, fmt.Errorf("create duration histogram: %w", err)
		}

		t.nodeCounter, err = meter.Int64Counter(
			"fmeca.compile.nodes",
			metric.WithDescription("Number of nodes in compiled graphs"),
			metric.WithUnit("1"),
		)
		if err != nil {
			return nil, fmt.Errorf("create node counter: %w", err)
		}

		t.badCounter, err = meter.Int64Counter(
			"fmeca.compile.out_of_range",
			metric.WithDescription("Number of nodes styled as out of range"),
			metric.WithUnit("1"),
		)
		if err != nil {
			return nil, fmt.Errorf("create out-of-range counter: %w", err)
		}

		t.errorCounter, err = meter.Int64Counter(
			"fmeca.compile.errors",
			metric.WithDescription("Number of failed compilations"),
			metric.WithUnit("1"),
		)
		if err != nil {
			return nil, fmt.Errorf("create error counter: %w", err)
		}
	}

	return t, nil
}

// start opens a compilation span. Without a configured tracer it returns
// the context unchanged and a nil span; the record methods guard for that.
func (t *compileTelemetry) start(ctx context.Context) (context.Context, trace.Span) {
	if t.tracer == nil {
		return ctx, nil
	}
	return t.tracer.Start(ctx, "fmeca.compile")
}

// end closes the span if one was opened.
func (t *compileTelemetry) end(span trace.Span) {
	if span != nil {
		span.End()
	}
}

// stageSpan opens a child span for one pipeline stage. The returned
// func ends the span, recording err when the stage failed. Without a
// configured tracer both are no-ops.
func (t *compileTelemetry) stageSpan(ctx context.Context, stage Stage) func(error) {
	if t.tracer == nil {
		return func(error) {}
	}
	_, span := t.tracer.Start(ctx, "fmeca.stage."+string(stage))
	return func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// recordSuccess annotates the span and records metrics for a completed
// compilation.
func (t *compileTelemetry) recordSuccess(ctx context.Context, span trace.Span, g *CompiledGraph, d time.Duration) {
	bad := len(g.BadIDs())

	if span != nil {
		span.SetAttributes(
			attribute.String("fmeca.graph_id", g.ID),
			attribute.Int("fmeca.nodes", len(g.IDs)),
			attribute.Int("fmeca.primary_nodes", g.Primaries),
			attribute.Int("fmeca.edges", len(g.Edges)),
			attribute.Int("fmeca.out_of_range", bad),
		)
		span.SetStatus(codes.Ok, "")
	}

	if t.durationHistogram != nil {
		t.durationHistogram.Record(ctx, float64(d.Microseconds())/1000)
	}
	if t.nodeCounter != nil {
		t.nodeCounter.Add(ctx, int64(len(g.IDs)))
	}
	if t.badCounter != nil && bad > 0 {
		t.badCounter.Add(ctx, int64(bad))
	}
}

// recordFailure annotates the span and counts a failed compilation.
func (t *compileTelemetry) recordFailure(ctx context.Context, span trace.Span, err error) {
	stage, staged := StageOf(err)

	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if staged {
			span.SetAttributes(attribute.String("fmeca.failed_stage", string(stage)))
		}
	}

	if t.errorCounter != nil {
		if staged {
			t.errorCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("fmeca.failed_stage", string(stage)),
			))
		} else {
			t.errorCounter.Add(ctx, 1)
		}
	}
}

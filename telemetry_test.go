package fmeca

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hypatiad/FMECAengine/fmecadb"
)

func TestTelemetryDisabled(t *testing.T) {
	tel, err := newCompileTelemetry(nil, nil)
	require.NoError(t, err)

	assert.Nil(t, tel.tracer)
	assert.Nil(t, tel.durationHistogram)
	assert.Nil(t, tel.nodeCounter)
	assert.Nil(t, tel.badCounter)
	assert.Nil(t, tel.errorCounter)

	ctx := context.Background()
	spanCtx, span := tel.start(ctx)
	assert.Equal(t, ctx, spanCtx)
	assert.Nil(t, span)

	// Recording with nothing configured must not panic.
	tel.recordSuccess(ctx, nil, &CompiledGraph{}, time.Millisecond)
	tel.recordFailure(ctx, nil, assert.AnError)
	done := tel.stageSpan(ctx, StageNormalize)
	done(assert.AnError)
	tel.end(nil)
}

func TestTelemetryInstruments(t *testing.T) {
	tel, err := newCompileTelemetry(nil, noop.NewMeterProvider())
	require.NoError(t, err)

	assert.Nil(t, tel.tracer)
	assert.NotNil(t, tel.durationHistogram)
	assert.NotNil(t, tel.nodeCounter)
	assert.NotNil(t, tel.badCounter)
	assert.NotNil(t, tel.errorCounter)
}

func TestCompileSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	c := newQuietCompiler(t, WithTracerProvider(tp))

	g, err := c.Compile(context.Background(), scenarioDatabase(t),
		WithValues(fmecadb.ValueMap{"A": {0}, "B": {5}}))
	require.NoError(t, err)

	spans := recorder.Ended()
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name()
	}
	// Stage spans end before the enclosing compile span.
	assert.Equal(t, []string{
		"fmeca.stage.normalize",
		"fmeca.stage.reduce",
		"fmeca.stage.topology",
		"fmeca.stage.weights",
		"fmeca.stage.terminals",
		"fmeca.stage.colors",
		"fmeca.stage.labels",
		"fmeca.stage.assemble",
		"fmeca.compile",
	}, names)

	span := spans[len(spans)-1]
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Equal(t, span.SpanContext().SpanID(), spans[0].Parent().SpanID())

	attrs := make(map[attribute.Key]attribute.Value, len(span.Attributes()))
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, g.ID, attrs["fmeca.graph_id"].AsString())
	assert.Equal(t, int64(2), attrs["fmeca.nodes"].AsInt64())
	assert.Equal(t, int64(2), attrs["fmeca.primary_nodes"].AsInt64())
	assert.Equal(t, int64(1), attrs["fmeca.edges"].AsInt64())
	assert.Equal(t, int64(0), attrs["fmeca.out_of_range"].AsInt64())
}

func TestCompileSpanOnFailure(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	c := newQuietCompiler(t, WithTracerProvider(tp))

	_, err := c.Compile(context.Background(), scenarioDatabase(t),
		WithAnnotations(fmecadb.Annotations{"A": "x"}))
	require.Error(t, err)

	spans := recorder.Ended()
	names := make([]string, len(spans))
	for i, s := range spans {
		names[i] = s.Name()
	}
	// Stages after the failing one never run.
	assert.Equal(t, []string{
		"fmeca.stage.normalize",
		"fmeca.stage.reduce",
		"fmeca.stage.topology",
		"fmeca.stage.weights",
		"fmeca.stage.terminals",
		"fmeca.compile",
	}, names)

	terminals := spans[4]
	assert.Equal(t, codes.Error, terminals.Status().Code)
	assert.NotEmpty(t, terminals.Events())

	compile := spans[len(spans)-1]
	assert.Equal(t, codes.Error, compile.Status().Code)
	require.NotEmpty(t, compile.Events())

	var stage string
	for _, kv := range compile.Attributes() {
		if kv.Key == "fmeca.failed_stage" {
			stage = kv.Value.AsString()
		}
	}
	assert.Equal(t, "terminals", stage)
}

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != instrumentationName {
			continue
		}
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return metricdata.Metrics{}
}

func TestCompileMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	c := newQuietCompiler(t, WithMeterProvider(mp))
	ctx := context.Background()

	_, err := c.Compile(ctx, scenarioDatabase(t),
		WithValues(fmecadb.ValueMap{"A": {0}, "B": {5}}))
	require.NoError(t, err)

	_, err = c.Compile(ctx, scenarioDatabase(t),
		WithAnnotations(fmecadb.Annotations{"A": "x"}))
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	duration := findMetric(t, rm, "fmeca.compile.duration")
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	nodes := findMetric(t, rm, "fmeca.compile.nodes")
	nodeSum, ok := nodes.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, nodeSum.DataPoints, 1)
	assert.Equal(t, int64(2), nodeSum.DataPoints[0].Value)

	errors := findMetric(t, rm, "fmeca.compile.errors")
	errSum, ok := errors.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, errSum.DataPoints, 1)
	assert.Equal(t, int64(1), errSum.DataPoints[0].Value)

	stage, ok := errSum.DataPoints[0].Attributes.Value("fmeca.failed_stage")
	require.True(t, ok)
	assert.Equal(t, "terminals", stage.AsString())
}

func TestCompileOutOfRangeMetric(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	c := newQuietCompiler(t, WithMeterProvider(mp))

	g, err := c.Compile(context.Background(), scenarioDatabase(t),
		WithValues(fmecadb.ValueMap{"A": {0}, "B": {5}}),
		WithColorRange(0, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, g.BadIDs())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	bad := findMetric(t, rm, "fmeca.compile.out_of_range")
	badSum, ok := bad.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, badSum.DataPoints, 1)
	assert.Equal(t, int64(1), badSum.DataPoints[0].Value)
}

func TestCompileMetricsUnitsAndDescriptions(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	c := newQuietCompiler(t, WithMeterProvider(mp))

	_, err := c.Compile(context.Background(), scenarioDatabase(t),
		WithValues(fmecadb.ValueMap{"A": {0}, "B": {5}}))
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	duration := findMetric(t, rm, "fmeca.compile.duration")
	assert.Equal(t, "ms", duration.Unit)
	assert.NotEmpty(t, duration.Description)
}

package fmeca

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/hypatiad/FMECAengine/colormap"
	"github.com/hypatiad/FMECAengine/fmecadb"
	"github.com/hypatiad/FMECAengine/hierarchy"
)

// Inputs is one compilation request: the database plus every overlay and
// knob for the run, snapshotted before the pipeline starts. CompileOption
// values fill it; stages treat it as read-only.
type Inputs struct {
	// Database is the failure-mode database being compiled.
	Database *fmecadb.Database

	// Values holds raw measurement samples per node id.
	Values fmecadb.ValueMap

	// Weights holds explicit edge weights per node id.
	Weights fmecadb.WeightMap

	// Names holds alternate display names per node id.
	Names fmecadb.NameOverlay

	// Placeholders holds placeholder label templates per node id.
	Placeholders fmecadb.PlaceholderOverlay

	// Annotations holds terminal annotations per node id.
	Annotations fmecadb.Annotations

	// Reduction collapses samples. When nil, ReductionExpr is compiled
	// instead, and Max is the fallback when both are unset.
	Reduction Reduction

	// ReductionExpr is a CEL reduction expression, compiled at the reduce
	// stage.
	ReductionExpr string

	// AutoWeights switches on automatic weight derivation; RootValue seeds
	// the path differences.
	AutoWeights bool
	RootValue   float64

	// Scale is the color scale configuration.
	Scale ColorScale

	// Labels is the placeholder label encoding configuration.
	Labels LabelRules

	// Style carries the global rendering knobs.
	Style Style
}

// TopologyBuilder derives the parent/child adjacency from the ordered id
// list and each node's parent reference. The default delegates to the
// hierarchy package; implementations must be deterministic and must
// reject non-forest topologies.
type TopologyBuilder interface {
	Build(ids []string, parentRefs []string) (*hierarchy.Map, error)
}

type defaultTopologyBuilder struct{}

func (defaultTopologyBuilder) Build(ids []string, parentRefs []string) (*hierarchy.Map, error) {
	return hierarchy.Build(ids, parentRefs)
}

// Compiler runs the compilation pipeline: normalize, reduce, build
// topology, resolve weights, synthesize terminals, map colors, encode
// labels, assemble. A Compiler holds no state across runs; one instance
// may be shared by concurrent callers.
type Compiler struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	telemetry      *compileTelemetry

	normalizer  Normalizer
	reducer     ValueReducer
	topology    TopologyBuilder
	weigher     WeightResolver
	synthesizer TerminalSynthesizer
	colorist    ColorMapper
	labeler     LabelEncoder
	assembler   Assembler
}

// New creates a compiler with the default pipeline stages. Options swap
// individual stages or wire in logging and telemetry.
//
// Example:
//
//	c, err := fmeca.New(
//	    fmeca.WithLogger(logger),
//	    fmeca.WithTracerProvider(tp),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := c.Compile(ctx, db, fmeca.WithValues(values))
func New(opts ...Option) (*Compiler, error) {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}

	// Create default logger if not provided
	if c.logger == nil {
		c.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if c.normalizer == nil {
		c.normalizer = defaultNormalizer{}
	}
	if c.reducer == nil {
		c.reducer = defaultValueReducer{}
	}
	if c.topology == nil {
		c.topology = defaultTopologyBuilder{}
	}
	if c.weigher == nil {
		c.weigher = defaultWeightResolver{}
	}
	if c.synthesizer == nil {
		c.synthesizer = defaultTerminalSynthesizer{}
	}
	if c.colorist == nil {
		c.colorist = defaultColorMapper{}
	}
	if c.labeler == nil {
		c.labeler = defaultLabelEncoder{}
	}
	if c.assembler == nil {
		c.assembler = defaultAssembler{}
	}

	telemetry, err := newCompileTelemetry(c.tracerProvider, c.meterProvider)
	if err != nil {
		return nil, err
	}
	c.telemetry = telemetry

	return c, nil
}

// Compile runs the full pipeline over db and returns the compiled graph.
// Compilation is a pure function of its inputs: the first stage failure
// aborts the run with a CompileError and no partial graph is ever
// returned. The context serves tracing only; compilation itself is a
// bounded in-memory transformation with no suspension points.
func (c *Compiler) Compile(ctx context.Context, db *fmecadb.Database, opts ...CompileOption) (*CompiledGraph, error) {
	start := time.Now()
	ctx, span := c.telemetry.start(ctx)
	defer c.telemetry.end(span)

	in := &Inputs{
		Database: db,
		Scale:    DefaultColorScale(),
		Labels:   DefaultLabelRules(),
		Style:    DefaultStyle(),
	}
	for _, opt := range opts {
		opt(in)
	}

	g, err := c.run(ctx, in)
	if err != nil {
		c.telemetry.recordFailure(ctx, span, err)
		c.logger.Error("compilation failed", "error", err)
		return nil, err
	}

	c.telemetry.recordSuccess(ctx, span, g, time.Since(start))
	c.logger.Debug("compiled failure graph",
		"graph_id", g.ID,
		"nodes", len(g.IDs),
		"edges", len(g.Edges),
		"duration", time.Since(start))
	return g, nil
}

// run executes the pipeline stages in order, tagging each failure with
// the stage that raised it. Each stage gets a child span when tracing
// is configured.
func (c *Compiler) run(ctx context.Context, in *Inputs) (*CompiledGraph, error) {
	if in.Database.Len() == 0 {
		return nil, stageErr(StageNormalize, fmecadb.ErrEmptyDatabase)
	}
	if err := in.Scale.Validate(); err != nil {
		return nil, err
	}
	if err := in.Labels.Validate(); err != nil {
		return nil, err
	}

	done := c.telemetry.stageSpan(ctx, StageNormalize)
	norm, err := c.normalizer.Normalize(in)
	done(err)
	if err != nil {
		return nil, stageErr(StageNormalize, err)
	}

	done = c.telemetry.stageSpan(ctx, StageReduce)
	red, err := c.reducer.Reduce(in, norm)
	done(err)
	if err != nil {
		return nil, stageErr(StageReduce, err)
	}
	if len(red.MultiSample) > 0 {
		c.logger.Warn("reducing nodes with multiple samples",
			"count", len(red.MultiSample),
			"nodes", red.MultiSample)
	}

	done = c.telemetry.stageSpan(ctx, StageTopology)
	topo, err := c.topology.Build(norm.IDs, norm.ParentRefs)
	done(err)
	if err != nil {
		return nil, stageErr(StageTopology, err)
	}

	done = c.telemetry.stageSpan(ctx, StageWeights)
	weights, err := c.weigher.Resolve(in, norm, red, topo)
	done(err)
	if err != nil {
		return nil, stageErr(StageWeights, err)
	}

	done = c.telemetry.stageSpan(ctx, StageTerminals)
	virtuals, err := c.synthesizer.Synthesize(norm, weights)
	done(err)
	if err != nil {
		return nil, stageErr(StageTerminals, err)
	}

	done = c.telemetry.stageSpan(ctx, StageColors)
	styles, err := c.colorist.MapColors(in, red)
	done(err)
	if err != nil {
		return nil, stageErr(StageColors, err)
	}

	done = c.telemetry.stageSpan(ctx, StageLabels)
	labels, err := c.labeler.Encode(in, norm, virtuals)
	done(err)
	if err != nil {
		return nil, stageErr(StageLabels, err)
	}

	done = c.telemetry.stageSpan(ctx, StageAssemble)
	g, err := c.assembler.Assemble(in, norm, red, topo, weights, virtuals, styles, labels)
	done(err)
	if err != nil {
		return nil, stageErr(StageAssemble, err)
	}
	return g, nil
}

// Compile compiles db with a default compiler. It is shorthand for New()
// followed by Compiler.Compile.
func Compile(ctx context.Context, db *fmecadb.Database, opts ...CompileOption) (*CompiledGraph, error) {
	c, err := New()
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, db, opts...)
}

// CompileFile loads a database file with the overlays declared in it and
// compiles the result. File overlays are applied before opts, so explicit
// options win on conflict.
func CompileFile(ctx context.Context, path string, opts ...CompileOption) (*CompiledGraph, error) {
	b, err := fmecadb.Load(path)
	if err != nil {
		return nil, err
	}
	fileOpts, err := bundleOptions(b)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, b.Database, append(fileOpts, opts...)...)
}

// bundleOptions converts a loaded bundle's overlays into compile options.
func bundleOptions(b *fmecadb.Bundle) ([]CompileOption, error) {
	var opts []CompileOption
	if b.Values != nil {
		opts = append(opts, WithValues(b.Values))
	}
	if b.Weights != nil {
		opts = append(opts, WithWeights(b.Weights))
	}
	if b.Names != nil {
		opts = append(opts, WithNames(b.Names))
	}
	if b.Placeholders != nil {
		opts = append(opts, WithPlaceholders(b.Placeholders))
	}
	if b.Terminals != nil {
		opts = append(opts, WithAnnotations(b.Terminals))
	}
	if b.Scale != nil {
		opt, err := scaleOption(b.Scale)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// scaleOption converts a document scale block into one compile option,
// resolving the colormap name against the built-in maps.
func scaleOption(s *fmecadb.ScaleDoc) (CompileOption, error) {
	var cm *colormap.Colormap
	if s.Colormap != "" {
		m, ok := colormap.Builtin(s.Colormap)
		if !ok {
			return nil, fmt.Errorf("%w: unknown colormap %q", ErrInvalidConfig, s.Colormap)
		}
		cm = &m
	}
	return func(in *Inputs) {
		if s.Min != nil {
			in.Scale.Min = *s.Min
		}
		if s.Max != nil {
			in.Scale.Max = *s.Max
		}
		if cm != nil {
			in.Scale.Colormap = *cm
		}
	}, nil
}

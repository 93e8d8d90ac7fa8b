package fmeca

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/hypatiad/FMECAengine/colormap"
	"github.com/hypatiad/FMECAengine/fmecadb"
)

// Option configures a Compiler at construction time.
type Option func(*Compiler)

// WithLogger sets the logger used for compilation progress and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithTracerProvider enables OpenTelemetry tracing of compilation runs.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Compiler) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider enables OpenTelemetry metrics for compilation runs.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Compiler) {
		c.meterProvider = mp
	}
}

// WithNormalizer replaces the schema normalization stage.
func WithNormalizer(n Normalizer) Option {
	return func(c *Compiler) {
		c.normalizer = n
	}
}

// WithValueReducer replaces the value reduction and range resolution stage.
func WithValueReducer(r ValueReducer) Option {
	return func(c *Compiler) {
		c.reducer = r
	}
}

// WithTopologyBuilder replaces the topology derivation stage.
func WithTopologyBuilder(b TopologyBuilder) Option {
	return func(c *Compiler) {
		c.topology = b
	}
}

// WithWeightResolver replaces the edge weight resolution stage.
func WithWeightResolver(r WeightResolver) Option {
	return func(c *Compiler) {
		c.weigher = r
	}
}

// WithTerminalSynthesizer replaces the virtual sink synthesis stage.
func WithTerminalSynthesizer(s TerminalSynthesizer) Option {
	return func(c *Compiler) {
		c.synthesizer = s
	}
}

// WithColorMapper replaces the color mapping stage.
func WithColorMapper(m ColorMapper) Option {
	return func(c *Compiler) {
		c.colorist = m
	}
}

// WithLabelEncoder replaces the label encoding stage.
func WithLabelEncoder(e LabelEncoder) Option {
	return func(c *Compiler) {
		c.labeler = e
	}
}

// WithAssembler replaces the graph assembly stage.
func WithAssembler(a Assembler) Option {
	return func(c *Compiler) {
		c.assembler = a
	}
}

// CompileOption configures a single compilation run.
type CompileOption func(*Inputs)

// WithValues supplies raw measurement samples per node id. The key set
// must match the database id set exactly; compilation fails with
// ErrSchemaMismatch otherwise. When no values are supplied at all, every
// node is backfilled with a single undefined (NaN) sample.
func WithValues(values fmecadb.ValueMap) CompileOption {
	return func(in *Inputs) {
		in.Values = values
	}
}

// WithWeights supplies explicit edge weights per node id. Nodes absent
// from the map default to weight 1. Ignored in auto-weight mode.
func WithWeights(weights fmecadb.WeightMap) CompileOption {
	return func(in *Inputs) {
		in.Weights = weights
	}
}

// WithNames supplies alternate display names per node id.
func WithNames(names fmecadb.NameOverlay) CompileOption {
	return func(in *Inputs) {
		in.Names = names
	}
}

// WithPlaceholders supplies placeholder label templates per node id.
func WithPlaceholders(placeholders fmecadb.PlaceholderOverlay) CompileOption {
	return func(in *Inputs) {
		in.Placeholders = placeholders
	}
}

// WithAnnotations supplies terminal annotations per node id. Every key
// must reference a terminal-flagged record; compilation fails with
// ErrInvalidTerminalAnnotation otherwise.
func WithAnnotations(annotations fmecadb.Annotations) CompileOption {
	return func(in *Inputs) {
		in.Annotations = annotations
	}
}

// WithReduction sets the operation that collapses a node's samples into
// one scalar. The default is Max.
func WithReduction(r Reduction) CompileOption {
	return func(in *Inputs) {
		in.Reduction = r
	}
}

// WithReductionExpr sets the reduction operation from a CEL expression
// evaluated per node with the samples bound as a list named "samples",
// for example "math.greatest(samples)" or "samples[0]". The expression is
// compiled once per run; a malformed expression fails compilation at the
// reduce stage.
func WithReductionExpr(expr string) CompileOption {
	return func(in *Inputs) {
		in.ReductionExpr = expr
	}
}

// WithAutoWeights switches edge weights to automatic derivation: along
// every root-to-leaf path, each node's weight becomes the difference
// between its reduced value and its predecessor's, seeded with rootValue
// at the path head. Differences of exactly zero become undefined weights.
func WithAutoWeights(rootValue float64) CompileOption {
	return func(in *Inputs) {
		in.AutoWeights = true
		in.RootValue = rootValue
	}
}

// WithColorScale replaces the whole color scale configuration.
func WithColorScale(scale ColorScale) CompileOption {
	return func(in *Inputs) {
		in.Scale = scale
	}
}

// WithColorRange pins the color normalization range instead of deriving
// it from the reduced values.
func WithColorRange(min, max float64) CompileOption {
	return func(in *Inputs) {
		in.Scale.Min = min
		in.Scale.Max = max
	}
}

// WithColormap replaces the colormap while keeping the rest of the scale
// configuration.
func WithColormap(m colormap.Colormap) CompileOption {
	return func(in *Inputs) {
		in.Scale.Colormap = m
	}
}

// WithLabelRules replaces the placeholder label encoding rules.
func WithLabelRules(rules LabelRules) CompileOption {
	return func(in *Inputs) {
		in.Labels = rules
	}
}

// WithStyle replaces the global rendering knobs.
func WithStyle(style Style) CompileOption {
	return func(in *Inputs) {
		in.Style = style
	}
}

package fmeca

import (
	"fmt"
	"math"
)

// Reduction collapses one node's samples into a single scalar. Built-in
// reductions skip NaN samples and produce NaN when no finite sample is
// left, so backfilled undefined values stay undefined after reduction.
type Reduction interface {
	// Name identifies the reduction in logs.
	Name() string

	// Reduce collapses samples into one scalar.
	Reduce(samples []float64) (float64, error)
}

type builtinReduction struct {
	name string
	fn   func([]float64) float64
}

func (r builtinReduction) Name() string {
	return r.name
}

func (r builtinReduction) Reduce(samples []float64) (float64, error) {
	return r.fn(samples), nil
}

// Built-in reductions.
var (
	// Max reduces to the largest finite sample. This is the default.
	Max Reduction = builtinReduction{name: "max", fn: func(samples []float64) float64 {
		out := math.NaN()
		for _, v := range samples {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(out) || v > out {
				out = v
			}
		}
		return out
	}}

	// Min reduces to the smallest finite sample.
	Min Reduction = builtinReduction{name: "min", fn: func(samples []float64) float64 {
		out := math.NaN()
		for _, v := range samples {
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(out) || v < out {
				out = v
			}
		}
		return out
	}}

	// Mean reduces to the arithmetic mean of the finite samples.
	Mean Reduction = builtinReduction{name: "mean", fn: func(samples []float64) float64 {
		sum, count := 0.0, 0
		for _, v := range samples {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			return math.NaN()
		}
		return sum / float64(count)
	}}

	// Sum reduces to the sum of the finite samples.
	Sum Reduction = builtinReduction{name: "sum", fn: func(samples []float64) float64 {
		sum, count := 0.0, 0
		for _, v := range samples {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
		if count == 0 {
			return math.NaN()
		}
		return sum
	}}
)

// Reduced is the value reducer's output: one scalar per node in canonical
// order, plus the resolved color normalization range.
type Reduced struct {
	// Values holds the reduced scalar per node, NaN when undefined.
	Values []float64

	// Min and Max bound the color normalization range. Bounds the caller
	// left unset are resolved to the extremes of the reduced values.
	Min float64
	Max float64

	// MultiSample lists the ids that carried more than one sample. Multiple
	// samples are not an error; the compiler logs a warning for them.
	MultiSample []string
}

// ValueReducer collapses per-node samples and resolves the color range.
type ValueReducer interface {
	Reduce(in *Inputs, norm *Normalized) (*Reduced, error)
}

type defaultValueReducer struct{}

func (defaultValueReducer) Reduce(in *Inputs, norm *Normalized) (*Reduced, error) {
	reduction, err := resolveReduction(in)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(norm.IDs))
	var multi []string
	for i, samples := range norm.Samples {
		if len(samples) > 1 {
			multi = append(multi, norm.IDs[i])
		}
		v, err := reduction.Reduce(samples)
		if err != nil {
			return nil, fmt.Errorf("failed to reduce values of %q: %w", norm.IDs[i], err)
		}
		values[i] = v
	}

	min, max := resolveRange(in.Scale, values)

	return &Reduced{
		Values:      values,
		Min:         min,
		Max:         max,
		MultiSample: multi,
	}, nil
}

// resolveReduction picks the reduction for this run: an explicit operation
// wins, then a CEL expression, then Max.
func resolveReduction(in *Inputs) (Reduction, error) {
	if in.Reduction != nil {
		return in.Reduction, nil
	}
	if in.ReductionExpr != "" {
		return NewExprReduction(in.ReductionExpr)
	}
	return Max, nil
}

// resolveRange fills unset scale bounds from the reduced values, skipping
// NaN. With no finite value at all the range falls back to [0, 1].
func resolveRange(scale ColorScale, values []float64) (float64, float64) {
	min, max := scale.Min, scale.Max
	if scale.MinSet() && scale.MaxSet() {
		return min, max
	}

	dataMin, dataMax := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < dataMin {
			dataMin = v
		}
		if v > dataMax {
			dataMax = v
		}
	}
	if math.IsInf(dataMin, 1) {
		dataMin, dataMax = 0, 1
	}

	if !scale.MinSet() {
		min = dataMin
	}
	if !scale.MaxSet() {
		max = dataMax
	}
	return min, max
}

package fmeca

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// reductionEnv builds the CEL environment reduction expressions compile
// against: the node's samples as a list of doubles, plus the list and math
// extension libraries.
func reductionEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("samples", cel.ListType(cel.DoubleType)),
		ext.Lists(),
		ext.Math(),
	)
}

// exprReduction is a Reduction backed by a compiled CEL program. The
// program is compiled once and is thread-safe, so one exprReduction can
// serve any number of nodes and compilations.
type exprReduction struct {
	original string
	program  cel.Program
}

// NewExprReduction compiles a CEL expression into a Reduction. The
// expression sees each node's samples as a list of doubles named
// "samples" and must produce a numeric result:
//
//	r, err := fmeca.NewExprReduction("math.greatest(samples)")
//	r, err := fmeca.NewExprReduction("samples.filter(s, s >= 0.0).size() > 0 ? samples[0] : 0.0")
func NewExprReduction(expr string) (Reduction, error) {
	env, err := reductionEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to build reduction environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile reduction %q: %w", expr, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to program reduction %q: %w", expr, err)
	}

	return &exprReduction{original: expr, program: prg}, nil
}

// Name returns the original expression source.
func (r *exprReduction) Name() string {
	return r.original
}

// Reduce evaluates the expression against one node's samples.
func (r *exprReduction) Reduce(samples []float64) (float64, error) {
	out, _, err := r.program.Eval(map[string]any{"samples": samples})
	if err != nil {
		return 0, fmt.Errorf("eval %q: %w", r.original, err)
	}

	switch v := out.Value().(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("reduction %q produced %T, want a number", r.original, out.Value())
	}
}

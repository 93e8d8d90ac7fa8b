package fmeca

import (
	"fmt"
	"math"

	"github.com/hypatiad/FMECAengine/hierarchy"
)

// WeightResolver computes the outgoing edge weight of every primary node,
// in canonical order.
type WeightResolver interface {
	Resolve(in *Inputs, norm *Normalized, red *Reduced, topo *hierarchy.Map) ([]Weight, error)
}

// defaultWeightResolver implements both weight modes. Explicit mode copies
// the normalized weights. Automatic mode walks every root-to-leaf path and
// assigns each node the forward difference of reduced values along it,
// seeded with the configured root value, so weights telescope: the sum of
// weights along any path prefix equals the last node's reduced value minus
// the root value.
type defaultWeightResolver struct{}

func (defaultWeightResolver) Resolve(in *Inputs, norm *Normalized, red *Reduced, topo *hierarchy.Map) ([]Weight, error) {
	weights := make([]Weight, len(norm.IDs))

	if !in.AutoWeights {
		for i := range norm.IDs {
			weights[i] = DefinedWeight(norm.Weights[i])
		}
		return weights, nil
	}

	// A node shared by several paths is re-assigned once per path. Paths
	// agree on the value in a forest, so the last write matches the first.
	for _, path := range topo.Paths() {
		prev := in.RootValue
		for _, id := range path {
			i, ok := topo.IndexOf(id)
			if !ok {
				return nil, fmt.Errorf("path node %q missing from topology index", id)
			}
			v := red.Values[i]
			d := v - prev
			if d == 0 || math.IsNaN(d) {
				weights[i] = UndefinedWeight()
			} else {
				weights[i] = DefinedWeight(d)
			}
			prev = v
		}
	}

	return weights, nil
}

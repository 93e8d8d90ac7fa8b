package fmeca

import (
	"github.com/google/uuid"

	"github.com/hypatiad/FMECAengine/hierarchy"
)

// Assembler composes the final graph artifact from the outputs of the
// earlier stages. Assembly is purely structural: every invariant has been
// enforced upstream and no validation happens here.
type Assembler interface {
	Assemble(in *Inputs, norm *Normalized, red *Reduced, topo *hierarchy.Map, weights []Weight, virtuals []VirtualNode, styles []NodeStyle, labels *Labels) (*CompiledGraph, error)
}

type defaultAssembler struct{}

func (defaultAssembler) Assemble(in *Inputs, norm *Normalized, red *Reduced, topo *hierarchy.Map, weights []Weight, virtuals []VirtualNode, styles []NodeStyle, labels *Labels) (*CompiledGraph, error) {
	n := len(norm.IDs)

	rules := in.Labels
	rules.IndexWidth = labels.IndexWidth

	g := &CompiledGraph{
		ID:           uuid.New().String(),
		IDs:          make([]string, 0, n+len(virtuals)),
		Primaries:    n,
		Styles:       make(map[string]NodeStyle, n),
		Classes:      make(map[string]NodeClass, n+len(virtuals)),
		RenderLabels: make(map[string]string, n+len(virtuals)),
		CopyLabels:   make(map[string]string, n+len(virtuals)),
		CopyTable:    labels.CopyTable,
		Labels:       rules,
		RangeMin:     red.Min,
		RangeMax:     red.Max,
		Style:        in.Style,
	}

	for i, id := range norm.IDs {
		g.IDs = append(g.IDs, id)
		g.Styles[id] = styles[i]
		g.Classes[id] = NodeClassPrimary
		g.RenderLabels[id] = labels.Render[i]
		g.CopyLabels[id] = labels.Copy[i]
	}
	for k, v := range virtuals {
		g.IDs = append(g.IDs, v.ID)
		g.Classes[v.ID] = NodeClassTerminal
		g.RenderLabels[v.ID] = labels.Render[n+k]
		g.CopyLabels[v.ID] = labels.Copy[n+k]
	}

	for i, id := range norm.IDs {
		for _, child := range topo.Children(id) {
			g.Edges = append(g.Edges, Edge{From: id, To: child, Weight: weights[i]})
		}
	}
	for _, v := range virtuals {
		g.Edges = append(g.Edges, Edge{From: v.Source, To: v.ID, Weight: v.Weight})
	}

	return g, nil
}

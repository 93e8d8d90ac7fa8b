// Package render defines the boundary between the compiler and graph
// rendering engines.
//
// A Renderer consumes one CompiledGraph and produces a visual artifact on
// a writer. The compiler's contract ends at the handoff: renderers own
// layout, drawing and any interactive figure management.
//
// Relabel supports the copy pass: a static duplicate of a rendering keeps
// only its text elements, and Relabel maps each copied text back to the
// node's copy label through the graph's position side-table, falling back
// to the position embedded in placeholder render labels.
package render

import (
	"context"
	"io"

	fmeca "github.com/hypatiad/FMECAengine"
)

// Renderer writes a visual artifact for a compiled graph.
type Renderer interface {
	Render(ctx context.Context, g *fmeca.CompiledGraph, w io.Writer) error
}

// Relabel maps copied text elements back to copy labels. Each text is
// resolved by decoding the position prefix of a placeholder-encoded render
// label (verified against the node at that position), then by exact render
// label match. Texts that match nothing pass through unchanged.
func Relabel(g *fmeca.CompiledGraph, texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = relabelOne(g, text)
	}
	return out
}

func relabelOne(g *fmeca.CompiledGraph, text string) string {
	if pos, ok := fmeca.DecodeRenderLabel(text, g.Labels); ok && pos <= len(g.IDs) {
		if g.RenderLabels[g.IDs[pos-1]] == text {
			if label, ok := g.CopyTable[pos]; ok {
				return label
			}
		}
	}

	for _, id := range g.IDs {
		if g.RenderLabels[id] == text {
			return g.CopyLabels[id]
		}
	}

	return text
}

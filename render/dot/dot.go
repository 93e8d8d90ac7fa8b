// Package dot renders compiled failure graphs as Graphviz DOT text.
package dot

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	fmeca "github.com/hypatiad/FMECAengine"
	"github.com/hypatiad/FMECAengine/colormap"
	"github.com/hypatiad/FMECAengine/render"
)

var _ render.Renderer = (*Encoder)(nil)

// Option configures an Encoder.
type Option func(*Encoder)

// WithFontName sets the font used for node and edge labels.
func WithFontName(name string) Option {
	return func(e *Encoder) {
		e.fontName = name
	}
}

// WithEdgeLabels toggles weight labels on edges.
func WithEdgeLabels(on bool) Option {
	return func(e *Encoder) {
		e.edgeLabels = on
	}
}

// WithGraphName sets the DOT graph name.
func WithGraphName(name string) Option {
	return func(e *Encoder) {
		e.graphName = name
	}
}

// Encoder writes compiled graphs in Graphviz DOT format. Output is
// deterministic: nodes follow the graph's id order and edges follow the
// graph's edge order.
type Encoder struct {
	graphName  string
	fontName   string
	edgeLabels bool
}

// New returns an Encoder with the given options applied.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		graphName:  "fmeca",
		fontName:   "Helvetica",
		edgeLabels: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render writes g as a DOT digraph. It implements render.Renderer.
func (e *Encoder) Render(_ context.Context, g *fmeca.CompiledGraph, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph %q {\n", e.graphName)
	fmt.Fprintf(&b, "  layout=%q;\n", g.Style.Layout)
	fmt.Fprintf(&b, "  node [shape=%q, style=\"filled\", fontname=%q, fontsize=%s];\n",
		g.Style.PrimaryShape, e.fontName, formatFloat(g.Style.FontSize))
	fmt.Fprintf(&b, "  edge [fontname=%q, fontsize=%s];\n",
		e.fontName, formatFloat(g.Style.FontSize))
	b.WriteString("\n")

	for _, id := range g.IDs {
		style, ok := g.Styles[id]
		if !ok {
			style = terminalStyle(g.Style)
		}
		attrs := []string{
			fmt.Sprintf("label=\"%s\"", escape(g.RenderLabels[id])),
		}
		if g.Classes[id] == fmeca.NodeClassTerminal {
			attrs = append(attrs, fmt.Sprintf("shape=%q", g.Style.TerminalShape))
		}
		attrs = append(attrs,
			fmt.Sprintf("fillcolor=%q", style.Color.Hex()),
			fmt.Sprintf("color=%q", style.EdgeColor.Hex()),
			fmt.Sprintf("penwidth=%s", formatFloat(style.LineWidth)),
			fmt.Sprintf("width=%s", formatFloat(style.Size)),
		)
		fmt.Fprintf(&b, "  \"%s\" [%s];\n", escape(id), strings.Join(attrs, ", "))
	}
	b.WriteString("\n")

	for _, edge := range g.Edges {
		var attrs []string
		if edge.Weight.Undefined {
			attrs = append(attrs, "style=\"dotted\"")
		} else if e.edgeLabels {
			attrs = append(attrs, fmt.Sprintf("label=\"%s\"", edge.Weight))
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\";\n", escape(edge.From), escape(edge.To))
			continue
		}
		fmt.Fprintf(&b, "  \"%s\" -> \"%s\" [%s];\n",
			escape(edge.From), escape(edge.To), strings.Join(attrs, ", "))
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// terminalStyle is the fixed styling of virtual sink nodes, which carry
// no reduced value and are absent from the graph's style map.
func terminalStyle(s fmeca.Style) fmeca.NodeStyle {
	return fmeca.NodeStyle{
		Color:     colormap.RGB{R: 1, G: 1, B: 1},
		EdgeColor: s.EdgeColor,
		LineWidth: s.LineWidth,
		Size:      s.TerminalSize,
	}
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

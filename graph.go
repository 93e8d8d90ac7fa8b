package fmeca

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hypatiad/FMECAengine/colormap"
)

// NodeClass partitions graph nodes for shape and size styling.
type NodeClass string

const (
	// NodeClassPrimary marks a node backed by a database record.
	NodeClassPrimary NodeClass = "primary"

	// NodeClassTerminal marks a synthesized virtual sink node.
	NodeClassTerminal NodeClass = "terminal"
)

// String returns the class name.
func (c NodeClass) String() string {
	return string(c)
}

// IsValid reports whether the class is one of the known values.
func (c NodeClass) IsValid() bool {
	return c == NodeClassPrimary || c == NodeClassTerminal
}

// Weight is an outgoing edge weight. Undefined marks a weight deliberately
// left without a numeric value, which renderers draw as an unweighted edge.
// An undefined weight is distinct from a zero weight: zero means "no
// change", undefined means "draw no weight at all".
type Weight struct {
	Value     float64
	Undefined bool
}

// DefinedWeight returns a weight carrying v.
func DefinedWeight(v float64) Weight {
	return Weight{Value: v}
}

// UndefinedWeight returns the undefined weight marker.
func UndefinedWeight() Weight {
	return Weight{Undefined: true}
}

// String returns the weight's numeric value, or "undefined".
func (w Weight) String() string {
	if w.Undefined {
		return "undefined"
	}
	return strconv.FormatFloat(w.Value, 'g', -1, 64)
}

// Edge is one weighted directed edge of the compiled graph.
type Edge struct {
	From   string
	To     string
	Weight Weight
}

// NodeStyle is the resolved visual styling for one primary node.
type NodeStyle struct {
	// Color is the face color: interpolated from the colormap, or the
	// scale's fallback face color when Bad is set.
	Color colormap.RGB

	// Bad flags a reduced value that fell outside the color range. Bad
	// nodes carry the scale's fallback styling instead of an interpolated
	// color; the flag never affects edge weights.
	Bad bool

	// EdgeColor is the node border color.
	EdgeColor colormap.RGB

	// LineWidth is the node border width.
	LineWidth float64

	// Size is the node size after any bad-node magnification.
	Size float64
}

// ColorScale configures how reduced values map onto colors. Min and Max
// bound the normalization range; left at their defaults they are derived
// from the reduced values. FaceColor, EdgeColor, LineWidth and Magnify
// style nodes whose value falls outside [Min, Max].
type ColorScale struct {
	// Min is the lower range bound. +Inf means "derive from data".
	Min float64

	// Max is the upper range bound. -Inf means "derive from data".
	Max float64

	// Colormap supplies the interpolated in-range colors.
	Colormap colormap.Colormap

	// FaceColor is the face color for out-of-range nodes.
	FaceColor colormap.RGB

	// EdgeColor is the border color for out-of-range nodes.
	EdgeColor colormap.RGB

	// LineWidth is the border width for out-of-range nodes.
	LineWidth float64

	// Magnify scales the size of out-of-range nodes.
	Magnify float64
}

// DefaultColorScale returns the scale used when the caller supplies none:
// data-derived range, jet colormap, light gray faces with red borders and
// a 1.2x size boost for out-of-range nodes.
func DefaultColorScale() ColorScale {
	return ColorScale{
		Min:       math.Inf(1),
		Max:       math.Inf(-1),
		Colormap:  colormap.Jet,
		FaceColor: colormap.RGB{R: 0.8, G: 0.8, B: 0.8},
		EdgeColor: colormap.RGB{R: 1},
		LineWidth: 2,
		Magnify:   1.2,
	}
}

// MinSet reports whether the caller pinned the lower bound.
func (s ColorScale) MinSet() bool {
	return !math.IsInf(s.Min, 1) && !math.IsNaN(s.Min)
}

// MaxSet reports whether the caller pinned the upper bound.
func (s ColorScale) MaxSet() bool {
	return !math.IsInf(s.Max, -1) && !math.IsNaN(s.Max)
}

// Validate checks the scale for internal consistency.
func (s ColorScale) Validate() error {
	if err := s.Colormap.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if s.MinSet() && s.MaxSet() && s.Min > s.Max {
		return fmt.Errorf("%w: color range min %v exceeds max %v", ErrInvalidConfig, s.Min, s.Max)
	}
	if s.Magnify <= 0 {
		return fmt.Errorf("%w: magnify must be positive, got %v", ErrInvalidConfig, s.Magnify)
	}
	if s.LineWidth < 0 {
		return fmt.Errorf("%w: line width must not be negative, got %v", ErrInvalidConfig, s.LineWidth)
	}
	return nil
}

// LabelRules configures placeholder label encoding.
type LabelRules struct {
	// Filler pads placeholder labels on the right. Must not be a digit, or
	// encoded positions could not be told apart from the padding.
	Filler byte

	// MinLength is the minimum length of an encoded placeholder label.
	MinLength int

	// IndexWidth is the digit count of the position prefix. Zero derives
	// the width from the primary node count, with a floor of two digits.
	IndexWidth int
}

// DefaultLabelRules returns the rules used when the caller supplies none.
func DefaultLabelRules() LabelRules {
	return LabelRules{Filler: '.', MinLength: 8}
}

// Validate checks the rules for internal consistency.
func (r LabelRules) Validate() error {
	if r.Filler == 0 {
		return fmt.Errorf("%w: label filler must be set", ErrInvalidConfig)
	}
	if r.Filler >= '0' && r.Filler <= '9' {
		return fmt.Errorf("%w: label filler must not be a digit, got %q", ErrInvalidConfig, r.Filler)
	}
	if r.MinLength < 0 {
		return fmt.Errorf("%w: label minimum length must not be negative, got %d", ErrInvalidConfig, r.MinLength)
	}
	if r.IndexWidth < 0 {
		return fmt.Errorf("%w: label index width must not be negative, got %d", ErrInvalidConfig, r.IndexWidth)
	}
	return nil
}

// Style carries the global rendering knobs passed through compilation
// untouched and consumed by the renderer.
type Style struct {
	// Layout names the layout algorithm the renderer should use.
	Layout string

	// LayoutScale stretches the layout.
	LayoutScale float64

	// PrimaryShape and TerminalShape name the node shapes per class.
	PrimaryShape  string
	TerminalShape string

	// PrimarySize and TerminalSize set the base node size per class.
	PrimarySize  float64
	TerminalSize float64

	// FontSize sets the label font size.
	FontSize float64

	// TextAlign sets the label alignment.
	TextAlign string

	// Resize scales the produced figure.
	Resize float64

	// Paper names the page size hint for static output.
	Paper string

	// EdgeColor is the border color for in-range primary nodes.
	EdgeColor colormap.RGB

	// LineWidth is the border width for in-range primary nodes.
	LineWidth float64
}

// DefaultStyle returns the rendering knobs used when the caller supplies
// none.
func DefaultStyle() Style {
	return Style{
		Layout:        "dot",
		LayoutScale:   1,
		PrimaryShape:  "box",
		TerminalShape: "ellipse",
		PrimarySize:   1,
		TerminalSize:  0.75,
		FontSize:      10,
		TextAlign:     "center",
		Resize:        1,
		Paper:         "a4",
		LineWidth:     1,
	}
}

// CompiledGraph is the compilation artifact handed to a renderer. IDs
// lists the primary nodes in database order followed by the synthesized
// virtual nodes; the maps below are keyed consistently with it.
//
// A CompiledGraph is immutable once returned: the compiler holds no
// reference to it and no compilation state survives the call that built it.
type CompiledGraph struct {
	// ID tags this compilation run.
	ID string

	// IDs is the ordered node list, primaries first.
	IDs []string

	// Primaries is the number of primary nodes at the head of IDs.
	Primaries int

	// Edges holds the weighted adjacency, parent edges in source
	// declaration order followed by virtual sink edges.
	Edges []Edge

	// Styles maps each primary id to its resolved styling. Virtual nodes
	// are never styled and are absent.
	Styles map[string]NodeStyle

	// Classes maps every id to its shape class.
	Classes map[string]NodeClass

	// RenderLabels maps every id to the label shown on the live rendering.
	RenderLabels map[string]string

	// CopyLabels maps every id to the label substituted on static copies.
	CopyLabels map[string]string

	// CopyTable maps 1-based node position to copy label, for copy passes
	// that cannot reach node metadata directly.
	CopyTable map[int]string

	// Labels records the encoding rules applied, with IndexWidth resolved
	// to the width actually used.
	Labels LabelRules

	// RangeMin and RangeMax are the resolved color normalization bounds.
	RangeMin float64
	RangeMax float64

	// Style carries the global rendering knobs.
	Style Style
}

// PrimaryIDs returns the primary node ids in database order.
func (g *CompiledGraph) PrimaryIDs() []string {
	return g.IDs[:g.Primaries]
}

// VirtualIDs returns the synthesized virtual node ids in creation order.
func (g *CompiledGraph) VirtualIDs() []string {
	return g.IDs[g.Primaries:]
}

// Position returns the 1-based position of id in the node list.
func (g *CompiledGraph) Position(id string) (int, bool) {
	for i, n := range g.IDs {
		if n == id {
			return i + 1, true
		}
	}
	return 0, false
}

// Out returns the edges leaving id, in stored order.
func (g *CompiledGraph) Out(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// Adjacency returns the edges grouped by source id.
func (g *CompiledGraph) Adjacency() map[string][]Edge {
	adj := make(map[string][]Edge)
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e)
	}
	return adj
}

// BadIDs returns the ids of primary nodes styled through the bad-value
// path, in declaration order.
func (g *CompiledGraph) BadIDs() []string {
	var bad []string
	for _, id := range g.PrimaryIDs() {
		if g.Styles[id].Bad {
			bad = append(bad, id)
		}
	}
	return bad
}

// Package colormap provides anchored color scales for mapping normalized
// numeric positions onto RGB colors.
//
// A Colormap is a named list of anchor colors spread evenly across [0, 1].
// Positions between anchors are resolved with a Catmull-Rom cubic spline so
// that gradients stay smooth across anchor boundaries, and positions outside
// [0, 1] clamp to the nearest end. At(0) is always exactly the first anchor
// and At(1) exactly the last, which keeps extreme values visually pinned to
// the ends of the scale.
//
// # Built-in Maps
//
// The package ships a small set of ready-made maps addressable by name:
//
//	jet   - blue through cyan and yellow to red
//	hot   - black through red and yellow to white
//	cool  - cyan to magenta
//	gray  - black to white
//
// Use Builtin to look one up and Names to enumerate them:
//
//	m, ok := colormap.Builtin("jet")
//	if !ok {
//		// unknown name
//	}
//	c := m.At(0.5)
//
// Custom maps are plain struct literals; call Validate before handing one to
// code that assumes well-formed anchors.
package colormap

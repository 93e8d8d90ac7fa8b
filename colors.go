package fmeca

import "math"

// ColorMapper resolves each primary node's visual styling from its reduced
// value, in canonical order.
type ColorMapper interface {
	MapColors(in *Inputs, red *Reduced) ([]NodeStyle, error)
}

// defaultColorMapper normalizes each reduced value into the resolved range
// and interpolates it through the scale's colormap. Values outside the
// range, and undefined (NaN) values, take the bad path: the scale's
// fallback face and edge colors, fallback line width, and a magnified
// size. The bad path replaces interpolation entirely, it never blends.
type defaultColorMapper struct{}

func (defaultColorMapper) MapColors(in *Inputs, red *Reduced) ([]NodeStyle, error) {
	scale := in.Scale
	styles := make([]NodeStyle, len(red.Values))

	for i, v := range red.Values {
		if math.IsNaN(v) || v < red.Min || v > red.Max {
			styles[i] = NodeStyle{
				Color:     scale.FaceColor,
				Bad:       true,
				EdgeColor: scale.EdgeColor,
				LineWidth: scale.LineWidth,
				Size:      in.Style.PrimarySize * scale.Magnify,
			}
			continue
		}

		// A collapsed range pins every in-range value to the first anchor.
		t := 0.0
		if red.Max > red.Min {
			t = (v - red.Min) / (red.Max - red.Min)
		}
		styles[i] = NodeStyle{
			Color:     scale.Colormap.At(t),
			EdgeColor: in.Style.EdgeColor,
			LineWidth: in.Style.LineWidth,
			Size:      in.Style.PrimarySize,
		}
	}

	return styles, nil
}

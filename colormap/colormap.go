package colormap

import (
	"fmt"
	"math"
	"sort"
)

// RGB is a color with red, green and blue channels in [0, 1].
type RGB struct {
	R float64
	G float64
	B float64
}

// Hex returns the color in "#rrggbb" form with each channel rounded to
// 8 bits. Channels outside [0, 1] clamp to the nearest end.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B))
}

func channelByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Colormap maps a normalized position in [0, 1] onto a color by cubic
// interpolation through evenly spaced anchor colors.
type Colormap struct {
	Name    string
	Anchors []RGB
}

// Validate checks that the colormap has at least one anchor and that every
// channel is a finite number.
func (m Colormap) Validate() error {
	if len(m.Anchors) == 0 {
		return fmt.Errorf("colormap %q has no anchors", m.Name)
	}
	for i, a := range m.Anchors {
		for _, ch := range [3]float64{a.R, a.G, a.B} {
			if math.IsNaN(ch) || math.IsInf(ch, 0) {
				return fmt.Errorf("colormap %q anchor %d has non-finite channel", m.Name, i)
			}
		}
	}
	return nil
}

// At returns the color at position t. Positions outside [0, 1] clamp to the
// nearest end, so At(0) is exactly the first anchor and At(1) exactly the
// last. Interior positions follow a Catmull-Rom spline through the anchors,
// with each channel clamped back into [0, 1] after interpolation.
func (m Colormap) At(t float64) RGB {
	n := len(m.Anchors)
	if n == 0 {
		return RGB{}
	}
	if n == 1 {
		return m.Anchors[0]
	}
	if math.IsNaN(t) || t <= 0 {
		return m.Anchors[0]
	}
	if t >= 1 {
		return m.Anchors[n-1]
	}

	u := t * float64(n-1)
	i := int(math.Floor(u))
	if i > n-2 {
		i = n - 2
	}
	s := u - float64(i)

	p0 := m.Anchors[maxInt(i-1, 0)]
	p1 := m.Anchors[i]
	p2 := m.Anchors[i+1]
	p3 := m.Anchors[minInt(i+2, n-1)]

	return RGB{
		R: clamp01(catmullRom(p0.R, p1.R, p2.R, p3.R, s)),
		G: clamp01(catmullRom(p0.G, p1.G, p2.G, p3.G, s)),
		B: clamp01(catmullRom(p0.B, p1.B, p2.B, p3.B, s)),
	}
}

// catmullRom evaluates the uniform Catmull-Rom basis on one segment. p1 and
// p2 bound the segment, p0 and p3 supply the tangents, s is the position
// within the segment in [0, 1].
func catmullRom(p0, p1, p2, p3, s float64) float64 {
	s2 := s * s
	s3 := s2 * s
	return 0.5 * ((2 * p1) +
		(-p0+p2)*s +
		(2*p0-5*p1+4*p2-p3)*s2 +
		(-p0+3*p1-3*p2+p3)*s3)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Jet runs from dark blue through cyan and yellow to dark red, matching the
// classic rainbow scale used for risk heat maps.
var Jet = Colormap{
	Name: "jet",
	Anchors: []RGB{
		{R: 0, G: 0, B: 0.5},
		{R: 0, G: 0, B: 1},
		{R: 0, G: 0.5, B: 1},
		{R: 0, G: 1, B: 1},
		{R: 0.5, G: 1, B: 0.5},
		{R: 1, G: 1, B: 0},
		{R: 1, G: 0.5, B: 0},
		{R: 1, G: 0, B: 0},
		{R: 0.5, G: 0, B: 0},
	},
}

// Hot runs from black through red and yellow to white.
var Hot = Colormap{
	Name: "hot",
	Anchors: []RGB{
		{R: 0, G: 0, B: 0},
		{R: 1, G: 0, B: 0},
		{R: 1, G: 1, B: 0},
		{R: 1, G: 1, B: 1},
	},
}

// Cool runs from cyan to magenta.
var Cool = Colormap{
	Name: "cool",
	Anchors: []RGB{
		{R: 0, G: 1, B: 1},
		{R: 1, G: 0, B: 1},
	},
}

// Gray runs from black to white.
var Gray = Colormap{
	Name: "gray",
	Anchors: []RGB{
		{R: 0, G: 0, B: 0},
		{R: 1, G: 1, B: 1},
	},
}

var builtins = map[string]Colormap{
	Jet.Name:  Jet,
	Hot.Name:  Hot,
	Cool.Name: Cool,
	Gray.Name: Gray,
}

// Builtin returns the built-in colormap registered under name. The second
// return value is false when no map with that name exists.
func Builtin(name string) (Colormap, bool) {
	m, ok := builtins[name]
	return m, ok
}

// Names returns the names of all built-in colormaps in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

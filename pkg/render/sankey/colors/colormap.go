package colors

import (
	"maps"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// DefaultColormap is used when no colormap is configured.
const DefaultColormap = "viridis"

// NoColormap disables automatic colour assignment.
const NoColormap = "none"

// Colormap maps a position in [0, 1] to a colour by blending between
// evenly spaced anchor colours.
type Colormap struct {
	Name    string
	anchors []colorful.Color
}

var colormaps = map[string][]string{
	"viridis": {"#440154", "#472c7a", "#3b518b", "#2c718e", "#21908d", "#27ad81", "#5cc863", "#aadc32", "#fde725"},
	"plasma":  {"#0d0887", "#5c01a6", "#9c179e", "#cc4778", "#ed7953", "#fdb42f", "#f0f921"},
	"jet":     {"#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f", "#ffff00", "#ff7f00", "#ff0000", "#7f0000"},
	"grays":   {"#000000", "#ffffff"},
}

// Colormaps lists the built-in colormap names in sorted order.
func Colormaps() []string {
	return slices.Sorted(maps.Keys(colormaps))
}

// LookupColormap returns the named colormap.
func LookupColormap(name string) (Colormap, error) {
	hexes, ok := colormaps[name]
	if !ok {
		return Colormap{}, errors.New(errors.ErrCodeInvalidOption,
			"unknown colormap %q (available: %v)", name, Colormaps())
	}
	anchors := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		anchors[i], _ = colorful.Hex(h)
	}
	return Colormap{Name: name, anchors: anchors}, nil
}

// At samples the colormap at t, clamped to [0, 1].
func (m Colormap) At(t float64) RGBA {
	if len(m.anchors) == 0 {
		return Black
	}
	if math.IsNaN(t) || t <= 0 {
		return fromColorful(m.anchors[0])
	}
	last := len(m.anchors) - 1
	if t >= 1 {
		return fromColorful(m.anchors[last])
	}
	pos := t * float64(last)
	i := int(pos)
	return fromColorful(m.anchors[i].BlendRgb(m.anchors[i+1], pos-float64(i)))
}

// Samples returns n colours evenly spaced over the whole map.
func (m Colormap) Samples(n int) []RGBA {
	out := make([]RGBA, n)
	for i := range out {
		if n == 1 {
			out[i] = m.At(0)
			continue
		}
		out[i] = m.At(float64(i) / float64(n-1))
	}
	return out
}

func fromColorful(c colorful.Color) RGBA {
	return RGBA{R: c.R, G: c.G, B: c.B, A: 1}
}

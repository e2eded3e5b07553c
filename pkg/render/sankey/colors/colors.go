package colors

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// RGBA is a colour with straight (non-premultiplied) channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Black and White are convenience colours used as font and frame defaults.
var (
	Black = RGBA{0, 0, 0, 1}
	White = RGBA{1, 1, 1, 1}
)

// Parse decodes a colour string. Hex strings may be given with or without
// the leading '#'; named colours are matched case-insensitively.
func Parse(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBA{}, errors.New(errors.ErrCodeInvalidColor, "empty colour")
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(c), nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 6:
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse colour %q", s)
		}
		return RGBA{R: c.R, G: c.G, B: c.B, A: 1}, nil
	case 8:
		c, err := colorful.Hex("#" + hex[:6])
		if err != nil {
			return RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse colour %q", s)
		}
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse alpha of %q", s)
		}
		return RGBA{R: c.R, G: c.G, B: c.B, A: float64(a) / 255}, nil
	}
	return RGBA{}, errors.New(errors.ErrCodeInvalidColor, "unrecognised colour %q", s)
}

// MustParse is like [Parse] but panics on error. Intended for literals.
func MustParse(s string) RGBA {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseMap parses every value of m, returning the first error encountered
// in key order.
func ParseMap(m map[string]string) (map[string]RGBA, error) {
	out := make(map[string]RGBA, len(m))
	for _, k := range sortedKeys(m) {
		c, err := Parse(m[k])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "colour for label %q", k)
		}
		out[k] = c
	}
	return out, nil
}

// FromColor converts a standard library colour.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// NRGBA converts to an 8-bit straight-alpha colour.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// Hex formats the colour as #rrggbb, dropping alpha.
func (c RGBA) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// WithAlpha returns a copy of c with the alpha channel replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// String implements fmt.Stringer.
func (c RGBA) String() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return fmt.Sprintf("%s%02x", c.Hex(), to8(c.A))
}

// MarshalText renders the colour in the form accepted by [Parse].
func (c RGBA) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via [Parse].
func (c *RGBA) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Interpolate returns n colours blending linearly, channel by channel, from
// c1 to c2. The first sample is exactly c1 and the last exactly c2.
func Interpolate(c1, c2 RGBA, n int) []RGBA {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []RGBA{c1}
	}
	out := make([]RGBA, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = RGBA{
			R: lerp(c1.R, c2.R, t),
			G: lerp(c1.G, c2.G, t),
			B: lerp(c1.B, c2.B, t),
			A: lerp(c1.A, c2.A, t),
		}
	}
	return out
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

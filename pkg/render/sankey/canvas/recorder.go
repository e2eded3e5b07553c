package canvas

import (
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
)

// OpKind identifies a recorded primitive.
type OpKind string

const (
	OpRect     OpKind = "rect"
	OpBand     OpKind = "band"
	OpPolyline OpKind = "polyline"
	OpText     OpKind = "text"
)

// Op is one recorded primitive. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind        `json:"kind"`
	X      []float64     `json:"x,omitempty"`
	Y      []float64     `json:"y,omitempty"` // polyline ys, or rect y0/y1
	Lower  []float64     `json:"lower,omitempty"`
	Upper  []float64     `json:"upper,omitempty"`
	Colors []colors.RGBA `json:"colors,omitempty"`
	Alpha  float64       `json:"alpha,omitempty"`
	Width  float64       `json:"width,omitempty"`
	Text   string        `json:"text,omitempty"`
	Style  *TextStyle    `json:"style,omitempty"`
}

// Recorder is a Canvas that stores every primitive in order.
type Recorder struct {
	Ops []Op
}

// FillRect records a rectangle as X = [x0 x1], Y = [y0 y1].
func (r *Recorder) FillRect(x0, y0, x1, y1 float64, fill colors.RGBA) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpRect,
		X:      []float64{x0, x1},
		Y:      []float64{y0, y1},
		Colors: []colors.RGBA{fill},
	})
}

// FillBetween records a band.
func (r *Recorder) FillBetween(xs, lower, upper []float64, fill []colors.RGBA, alpha float64) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpBand,
		X:      slices.Clone(xs),
		Lower:  slices.Clone(lower),
		Upper:  slices.Clone(upper),
		Colors: slices.Clone(fill),
		Alpha:  alpha,
	})
}

// Polyline records a stroked path.
func (r *Recorder) Polyline(xs, ys []float64, stroke []colors.RGBA, width float64) {
	r.Ops = append(r.Ops, Op{
		Kind:   OpPolyline,
		X:      slices.Clone(xs),
		Y:      slices.Clone(ys),
		Colors: slices.Clone(stroke),
		Width:  width,
	})
}

// Text records a text run.
func (r *Recorder) Text(x, y float64, s string, style TextStyle) {
	r.Ops = append(r.Ops, Op{
		Kind:  OpText,
		X:     []float64{x},
		Y:     []float64{y},
		Text:  s,
		Style: &style,
	})
}

// Count returns the number of recorded ops of kind k.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Texts returns the recorded text runs in order.
func (r *Recorder) Texts() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op)
		}
	}
	return out
}

var _ Canvas = (*Recorder)(nil)

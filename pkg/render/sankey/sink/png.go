package sink

import (
	"bytes"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// RenderPNG rasterizes the layout. Text uses the Go fonts regardless of
// the requested family.
func RenderPNG(l layout.Layout, opts ...Option) ([]byte, error) {
	r, o, err := newRenderer(opts...)
	if err != nil {
		return nil, err
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	vp := sankey.Viewport(l, r.width, o)

	w := int(math.Ceil(vp.Width * r.scale))
	h := int(math.Ceil(vp.Height * r.scale))
	dc := gg.NewContext(w, h)
	defer dc.Close()

	if o.Background.A > 0 {
		dc.ClearWithColor(toGG(o.Background, 1))
	}

	c := &pngCanvas{dc: dc, vp: vp, scale: r.scale, fonts: fonts}
	sankey.DrawResolved(c, l, o)
	if c.err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, c.err, "rasterize")
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

type fontSet struct {
	regular, bold, italic *text.FontSource
}

var loadFonts = sync.OnceValues(func() (fontSet, error) {
	var fs fontSet
	var err error
	if fs.regular, err = text.NewFontSource(goregular.TTF); err != nil {
		return fs, errors.Wrap(errors.ErrCodeInternal, err, "load regular font")
	}
	if fs.bold, err = text.NewFontSource(gobold.TTF); err != nil {
		return fs, errors.Wrap(errors.ErrCodeInternal, err, "load bold font")
	}
	if fs.italic, err = text.NewFontSource(goitalic.TTF); err != nil {
		return fs, errors.Wrap(errors.ErrCodeInternal, err, "load italic font")
	}
	return fs, nil
})

func (fs fontSet) face(style canvas.TextStyle, size float64) text.Face {
	switch {
	case style.Weight == "bold":
		return fs.bold.Face(size)
	case style.Style == "italic":
		return fs.italic.Face(size)
	default:
		return fs.regular.Face(size)
	}
}

// pngCanvas draws onto a gg context. Pixel coordinates from the viewport
// are multiplied by scale.
type pngCanvas struct {
	dc    *gg.Context
	vp    canvas.Viewport
	scale float64
	fonts fontSet
	err   error
}

func (p *pngCanvas) x(v float64) float64 { return p.vp.X(v) * p.scale }
func (p *pngCanvas) y(v float64) float64 { return p.vp.Y(v) * p.scale }

func (p *pngCanvas) keep(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *pngCanvas) FillRect(x0, y0, x1, y1 float64, fill colors.RGBA) {
	px0, px1 := p.x(min(x0, x1)), p.x(max(x0, x1))
	py0, py1 := p.y(max(y0, y1)), p.y(min(y0, y1))
	p.dc.SetFillBrush(gg.Solid(toGG(fill, 1)))
	p.dc.DrawRectangle(px0, py0, px1-px0, py1-py0)
	p.keep(p.dc.Fill())
}

func (p *pngCanvas) FillBetween(xs, lower, upper []float64, fill []colors.RGBA, alpha float64) {
	if len(xs) == 0 || len(fill) == 0 {
		return
	}
	for i := range xs {
		if i == 0 {
			p.dc.MoveTo(p.x(xs[i]), p.y(upper[i]))
		} else {
			p.dc.LineTo(p.x(xs[i]), p.y(upper[i]))
		}
	}
	for i := len(xs) - 1; i >= 0; i-- {
		p.dc.LineTo(p.x(xs[i]), p.y(lower[i]))
	}
	p.dc.ClosePath()
	p.dc.SetFillBrush(p.brush(xs, fill, alpha))
	p.keep(p.dc.Fill())
}

func (p *pngCanvas) Polyline(xs, ys []float64, stroke []colors.RGBA, width float64) {
	if len(xs) == 0 || len(stroke) == 0 {
		return
	}
	p.dc.MoveTo(p.x(xs[0]), p.y(ys[0]))
	for i := 1; i < len(xs); i++ {
		p.dc.LineTo(p.x(xs[i]), p.y(ys[i]))
	}
	p.dc.SetStrokeBrush(p.brush(xs, stroke, 1))
	p.dc.SetLineWidth(width * p.scale)
	p.keep(p.dc.Stroke())
}

func (p *pngCanvas) Text(x, y float64, s string, style canvas.TextStyle) {
	size := style.Size * p.scale
	p.dc.SetFont(p.fonts.face(style, size))
	p.dc.SetColor(toGG(style.Color, 1).Color())

	lines := strings.Split(s, "\n")
	top := blockTop(p.vp.Y(y), len(lines), style) * p.scale
	ax := 0.0
	switch style.Align {
	case canvas.AlignCenter:
		ax = 0.5
	case canvas.AlignRight:
		ax = 1
	}
	for i, line := range lines {
		cy := top + (float64(i)+0.5)*lineSpacing*size
		p.dc.DrawStringAnchored(line, p.x(x), cy, ax, 0.5)
	}
}

// brush returns a solid brush, or a horizontal gradient with one stop per
// sample.
func (p *pngCanvas) brush(xs []float64, cs []colors.RGBA, alpha float64) gg.Brush {
	if len(cs) == 1 || len(cs) != len(xs) {
		return gg.Solid(toGG(cs[0], alpha))
	}
	x0, x1 := p.x(xs[0]), p.x(xs[len(xs)-1])
	g := gg.NewLinearGradientBrush(x0, 0, x1, 0)
	span := x1 - x0
	for i, c := range cs {
		off := 0.0
		if span != 0 {
			off = (p.x(xs[i]) - x0) / span
		}
		g.AddColorStop(off, toGG(c, alpha))
	}
	return g
}

func toGG(c colors.RGBA, alpha float64) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A * alpha}
}

var _ canvas.Canvas = (*pngCanvas)(nil)

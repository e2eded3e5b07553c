package sink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// lineSpacing is the distance between stacked text lines, in font sizes.
const lineSpacing = 1.2

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...Option) ([]byte, error) {
	r, o, err := newRenderer(opts...)
	if err != nil {
		return nil, err
	}
	vp := sankey.Viewport(l, r.width, o)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%.0f" height="%.0f">`+"\n",
		num(vp.Width), num(vp.Height), vp.Width, vp.Height)
	if o.Background.A > 0 {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"%s/>`+"\n",
			o.Background.Hex(), opacity("fill-opacity", o.Background.A))
	}

	c := &svgCanvas{buf: &buf, vp: vp}
	sankey.DrawResolved(c, l, o)

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// svgCanvas writes primitives as SVG elements in pixel coordinates.
type svgCanvas struct {
	buf *bytes.Buffer
	vp  canvas.Viewport
	ids int
}

func (s *svgCanvas) FillRect(x0, y0, x1, y1 float64, fill colors.RGBA) {
	px0, px1 := s.vp.X(min(x0, x1)), s.vp.X(max(x0, x1))
	py0, py1 := s.vp.Y(max(y0, y1)), s.vp.Y(min(y0, y1))
	fmt.Fprintf(s.buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s/>`+"\n",
		num(px0), num(py0), num(px1-px0), num(py1-py0), fill.Hex(), opacity("fill-opacity", fill.A))
}

func (s *svgCanvas) FillBetween(xs, lower, upper []float64, fill []colors.RGBA, alpha float64) {
	if len(xs) == 0 || len(fill) == 0 {
		return
	}
	var d strings.Builder
	for i, x := range xs {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&d, "%s%s %s ", cmd, num(s.vp.X(x)), num(s.vp.Y(upper[i])))
	}
	for i := len(xs) - 1; i >= 0; i-- {
		fmt.Fprintf(&d, "L%s %s ", num(s.vp.X(xs[i])), num(s.vp.Y(lower[i])))
	}
	d.WriteString("Z")

	paint := s.paint(xs, fill)
	fmt.Fprintf(s.buf, `  <path d="%s" fill="%s" fill-opacity="%s" stroke="none"/>`+"\n",
		d.String(), paint, num(alpha*fill[0].A))
}

func (s *svgCanvas) Polyline(xs, ys []float64, stroke []colors.RGBA, width float64) {
	if len(xs) == 0 || len(stroke) == 0 {
		return
	}
	var pts strings.Builder
	for i := range xs {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%s,%s", num(s.vp.X(xs[i])), num(s.vp.Y(ys[i])))
	}
	fmt.Fprintf(s.buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
		pts.String(), s.paint(xs, stroke), num(width), opacity("stroke-opacity", stroke[0].A))
}

func (s *svgCanvas) Text(x, y float64, text string, style canvas.TextStyle) {
	lines := strings.Split(text, "\n")
	px := s.vp.X(x)
	top := blockTop(s.vp.Y(y), len(lines), style)

	fmt.Fprintf(s.buf, `  <text font-family="%s" font-size="%s" fill="%s"%s`,
		html.EscapeString(style.Family), num(style.Size), style.Color.Hex(), opacity("fill-opacity", style.Color.A))
	if style.Weight != "" && style.Weight != "normal" {
		fmt.Fprintf(s.buf, ` font-weight="%s"`, html.EscapeString(style.Weight))
	}
	if style.Style != "" && style.Style != "normal" {
		fmt.Fprintf(s.buf, ` font-style="%s"`, html.EscapeString(style.Style))
	}
	fmt.Fprintf(s.buf, ` text-anchor="%s" dominant-baseline="central">`, textAnchor(style.Align))
	for i, line := range lines {
		cy := top + (float64(i)+0.5)*lineSpacing*style.Size
		fmt.Fprintf(s.buf, `<tspan x="%s" y="%s">%s</tspan>`, num(px), num(cy), html.EscapeString(line))
	}
	s.buf.WriteString("</text>\n")
}

// paint returns a fill or stroke value: a plain colour, or a reference to
// a horizontal gradient with one stop per sample.
func (s *svgCanvas) paint(xs []float64, cs []colors.RGBA) string {
	if len(cs) == 1 || len(cs) != len(xs) {
		return cs[0].Hex()
	}
	s.ids++
	id := "g" + strconv.Itoa(s.ids)
	x0, x1 := s.vp.X(xs[0]), s.vp.X(xs[len(xs)-1])
	fmt.Fprintf(s.buf, `  <defs><linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="0" x2="%s" y2="0">`,
		id, num(x0), num(x1))
	span := x1 - x0
	for i, c := range cs {
		off := 0.0
		if span != 0 {
			off = (s.vp.X(xs[i]) - x0) / span
		}
		fmt.Fprintf(s.buf, `<stop offset="%s" stop-color="%s"/>`, num(off), c.Hex())
	}
	s.buf.WriteString("</linearGradient></defs>\n")
	return "url(#" + id + ")"
}

// blockTop returns the pixel y of the top of a text block of n lines
// anchored at py.
func blockTop(py float64, n int, style canvas.TextStyle) float64 {
	h := float64(n) * lineSpacing * style.Size
	switch style.Anchor {
	case canvas.AnchorTop:
		return py
	case canvas.AnchorBottom:
		return py - h
	default:
		return py - h/2
	}
}

func textAnchor(a canvas.HAlign) string {
	switch a {
	case canvas.AlignCenter:
		return "middle"
	case canvas.AlignRight:
		return "end"
	default:
		return "start"
	}
}

func opacity(attr string, a float64) string {
	if a >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, attr, num(a))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

var _ canvas.Canvas = (*svgCanvas)(nil)

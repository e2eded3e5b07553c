package sankey

import (
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// Draw renders l onto c: frames, ribbons, nodes, labels and titles in that
// order.
func Draw(c canvas.Canvas, l layout.Layout, opts ...Option) error {
	o := Resolve(opts...)
	if err := o.Validate(); err != nil {
		return err
	}
	DrawResolved(c, l, o)
	return nil
}

// DrawResolved is Draw with already validated options.
func DrawResolved(c canvas.Canvas, l layout.Layout, o Options) {
	d := drawer{c: c, l: l, o: o}
	d.frames()
	d.ribbons()
	d.nodes()
	d.labels()
	d.titles()
}

type drawer struct {
	c canvas.Canvas
	l layout.Layout
	o Options
}

func (d drawer) frames() {
	xs := []float64{0, d.l.PlotWidth}
	stroke := []colors.RGBA{d.o.FrameColor}
	if d.o.FrameSide.top() {
		y := frameTop(d.l, d.o)
		d.c.Polyline(xs, []float64{y, y}, stroke, 1)
	}
	if d.o.FrameSide.bottom() {
		y := frameBottom(d.l, d.o)
		d.c.Polyline(xs, []float64{y, y}, stroke, 1)
	}
}

func (d drawer) ribbons() {
	for _, r := range d.l.Ribbons {
		d.c.FillBetween(r.X, r.Lower, r.Upper, r.Colors, d.o.FlowAlpha)
		if d.o.FlowEdge {
			d.c.Polyline(r.X, r.Lower, r.Colors, d.o.FlowEdgeWidth)
			d.c.Polyline(r.X, r.Upper, r.Colors, d.o.FlowEdgeWidth)
		}
	}
}

func (d drawer) nodes() {
	for _, stage := range d.l.Nodes {
		for _, n := range stage {
			fill := n.Color.WithAlpha(n.Color.A * d.o.NodeAlpha)
			d.c.FillRect(n.Left, n.Bottom, n.Right, n.Top, fill)
			if d.o.NodeEdge {
				d.c.Polyline(
					[]float64{n.Left, n.Right, n.Right, n.Left, n.Left},
					[]float64{n.Bottom, n.Bottom, n.Top, n.Top, n.Bottom},
					[]colors.RGBA{n.Color}, 1)
			}
		}
	}
}

func (d drawer) labels() {
	font := d.o.labelFont()
	for s, stage := range d.l.Nodes {
		loc := d.o.LabelLoc[columnGroup(s, d.l.Stages)]
		for _, n := range stage {
			text := labelText(n, d.o)
			for _, p := range labelPlacements(n, loc, d.l.LabelGap) {
				d.c.Text(p.x, n.CenterY(), text, font.style(p.align, canvas.AnchorMiddle))
			}
		}
	}
}

func (d drawer) titles() {
	if d.o.TitleSide == SideNone {
		return
	}
	font := d.o.titleFont()
	for s := 0; s < d.l.Stages && s < len(d.o.Titles); s++ {
		title := d.o.Titles[s]
		if title == "" {
			continue
		}
		x := d.l.StageLeft(s) + d.l.NodeWidth/2
		if d.o.TitleSide.top() {
			d.c.Text(x, titleTop(d.l, d.o, s), title, font.style(canvas.AlignCenter, canvas.AnchorBottom))
		}
		if d.o.TitleSide.bottom() {
			d.c.Text(x, titleBottom(d.l, d.o, s), title, font.style(canvas.AlignCenter, canvas.AnchorTop))
		}
	}
}

// columnGroup maps a stage to the index of its LabelLoc entry.
func columnGroup(stage, stages int) int {
	switch stage {
	case 0:
		return 0
	case stages - 1:
		return 2
	default:
		return 1
	}
}

type placement struct {
	x     float64
	align canvas.HAlign
}

func labelPlacements(n layout.Node, loc LabelLoc, gap float64) []placement {
	left := placement{n.Left - gap, canvas.AlignRight}
	right := placement{n.Right + gap, canvas.AlignLeft}
	switch loc {
	case LabelLeft:
		return []placement{left}
	case LabelRight:
		return []placement{right}
	case LabelBoth:
		return []placement{left, right}
	case LabelCenter:
		return []placement{{n.CenterX(), canvas.AlignCenter}}
	}
	return nil
}

func labelText(n layout.Node, o Options) string {
	text := n.Label
	if alt, ok := o.LabelDict[n.Label]; ok {
		text = alt
	}
	if o.LabelValues {
		text += "\n" + fmt.Sprintf(o.ValueFormat, n.Weight)
	}
	return text
}

func frameTop(l layout.Layout, o Options) float64 {
	return l.PlotHeight + o.FrameGap*l.PlotHeight
}

func frameBottom(l layout.Layout, o Options) float64 {
	return -o.FrameGap * l.PlotHeight
}

func titleTop(l layout.Layout, o Options, s int) float64 {
	gap := o.TitleGap * l.PlotHeight
	if o.TitleLoc == TitleOuter {
		return frameTop(l, o) + gap
	}
	return l.StageTop(s) + gap
}

func titleBottom(l layout.Layout, o Options, s int) float64 {
	gap := o.TitleGap * l.PlotHeight
	if o.TitleLoc == TitleOuter {
		return frameBottom(l, o) - gap
	}
	return l.StageOffsets[s] - gap
}

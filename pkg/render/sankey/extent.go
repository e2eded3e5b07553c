package sankey

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// Approximate glyph metrics relative to the font size, used to reserve
// room for text before any font is loaded.
const (
	avgAdvance = 0.6
	lineHeight = 1.2
)

// Extent returns the data-space area the drawing covers and the pixel
// padding needed around it so that labels and titles fit.
func Extent(l layout.Layout, o Options) (canvas.Rect, canvas.Insets) {
	r := canvas.Rect{MinX: 0, MinY: 0, MaxX: l.PlotWidth, MaxY: l.PlotHeight}
	if o.FrameSide.top() {
		r.MaxY = math.Max(r.MaxY, frameTop(l, o))
	}
	if o.FrameSide.bottom() {
		r.MinY = math.Min(r.MinY, frameBottom(l, o))
	}

	var pad canvas.Insets
	hasTitle := false
	for s := 0; s < l.Stages && s < len(o.Titles); s++ {
		if o.Titles[s] == "" {
			continue
		}
		hasTitle = true
		if o.TitleSide.top() {
			r.MaxY = math.Max(r.MaxY, titleTop(l, o, s))
		}
		if o.TitleSide.bottom() {
			r.MinY = math.Min(r.MinY, titleBottom(l, o, s))
		}
	}
	if hasTitle && o.TitleSide != SideNone {
		h := textHeight("x", o.titleFont())
		if o.TitleSide.top() {
			pad.Top = h
		}
		if o.TitleSide.bottom() {
			pad.Bottom = h
		}
	}

	// Labels are vertically centred on nodes, so a multi-line label on the
	// top or bottom node can stick out by half its height.
	lf := o.labelFont()
	half := textHeight(strings.Repeat("\n", lineCount(o)-1), lf) / 2
	pad.Top = math.Max(pad.Top, half)
	pad.Bottom = math.Max(pad.Bottom, half)

	for s, stage := range l.Nodes {
		loc := o.LabelLoc[columnGroup(s, l.Stages)]
		for _, n := range stage {
			w := textWidth(labelText(n, o), lf)
			for _, p := range labelPlacements(n, loc, l.LabelGap) {
				switch {
				case p.align == canvas.AlignRight && s == 0:
					pad.Left = math.Max(pad.Left, w)
				case p.align == canvas.AlignLeft && s == l.Stages-1:
					pad.Right = math.Max(pad.Right, w)
				case p.align == canvas.AlignCenter && s == 0:
					pad.Left = math.Max(pad.Left, w/2)
				case p.align == canvas.AlignCenter && s == l.Stages-1:
					pad.Right = math.Max(pad.Right, w/2)
				}
			}
		}
	}

	m := o.Margin
	return r, pad.Add(canvas.Insets{Left: m, Right: m, Top: m, Bottom: m})
}

// Viewport fits the drawing into width pixels.
func Viewport(l layout.Layout, width float64, o Options) canvas.Viewport {
	r, pad := Extent(l, o)
	return canvas.NewViewport(r, width, pad)
}

func lineCount(o Options) int {
	if o.LabelValues {
		return 2
	}
	return 1
}

func textWidth(s string, f Font) float64 {
	advance := avgAdvance
	if f.Weight == "bold" {
		advance += 0.05
	}
	var widest int
	for _, line := range strings.Split(s, "\n") {
		widest = max(widest, utf8.RuneCountInString(line))
	}
	return float64(widest) * advance * f.Size
}

func textHeight(s string, f Font) float64 {
	return float64(strings.Count(s, "\n")+1) * lineHeight * f.Size
}

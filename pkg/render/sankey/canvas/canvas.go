// Package canvas defines the 2D drawing surface Sankey diagrams are drawn
// on.
//
// All coordinates passed to a [Canvas] are layout data units with y
// pointing up. Implementations map them to device space with a [Viewport].
// Font sizes and stroke widths are in device pixels so text stays readable
// whatever the data scale.
package canvas

import "github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"

// HAlign is the horizontal anchor of a text run.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAnchor is the vertical anchor of a text run.
type VAnchor int

const (
	AnchorMiddle VAnchor = iota
	AnchorTop
	AnchorBottom
)

// TextStyle describes how a text run is drawn. Text may contain '\n';
// lines are stacked and the block as a whole is anchored.
type TextStyle struct {
	Family string
	Size   float64 // pixels
	Color  colors.RGBA
	Weight string // "normal" or "bold"
	Style  string // "normal" or "italic"
	Align  HAlign
	Anchor VAnchor
}

// Canvas receives drawing primitives.
type Canvas interface {
	// FillRect fills the axis-aligned rectangle spanned by two corners.
	FillRect(x0, y0, x1, y1 float64, fill colors.RGBA)

	// FillBetween fills the band between two curves sampled at xs. fill
	// holds one colour per sample (a gradient) or a single solid colour;
	// alpha multiplies the colours' own alpha.
	FillBetween(xs, lower, upper []float64, fill []colors.RGBA, alpha float64)

	// Polyline strokes a path through (xs[i], ys[i]). stroke is per vertex
	// or a single colour, like FillBetween.
	Polyline(xs, ys []float64, stroke []colors.RGBA, width float64)

	// Text draws s anchored at (x, y).
	Text(x, y float64, s string, style TextStyle)
}

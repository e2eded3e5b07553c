// Package sankey draws computed Sankey layouts onto a [canvas.Canvas].
//
// # Overview
//
// Drawing is separated from geometry: [layout.Build] decides where every
// node and ribbon goes, and [Draw] turns that into primitives (filled
// rectangles, gradient bands, polylines and text). Output formats live in
// the [sink] subpackage and implement the canvas.
//
//	l, err := layout.Build(t)
//	svg, err := sink.RenderSVG(l, sink.WithDrawOptions(
//	    sankey.WithTitles("2023", "2024"),
//	    sankey.WithLabelLoc(sankey.LabelLeft, sankey.LabelBoth, sankey.LabelRight),
//	))
//
// # Labels
//
// Node labels are placed per column group: the first column, the middle
// columns and the last column each have a [LabelLoc]. Labels can be
// renamed with [WithLabelDict] and annotated with the node weight with
// [WithLabelValues].
//
// # Titles and Frames
//
// Stage titles sit above or below each column ([WithTitleSide]), either
// right next to the column ("inner") or aligned outside the frame
// ("outer"). Frames are horizontal rules above and/or below the plot.
//
// [layout.Build]: github.com/matzehuels/sankeyflow/pkg/render/sankey/layout.Build
// [sink]: github.com/matzehuels/sankeyflow/pkg/render/sankey/sink
package sankey

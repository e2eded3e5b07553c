// Package nodelink renders Sankey layouts as traditional node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz: each
// (stage, label) node becomes a filled box in its stage's rank and each
// ribbon becomes an edge whose pen width follows the ribbon weight. It is
// an alternative to the Sankey drawing when exact flow geometry matters
// less than the connection structure.
//
// # Usage
//
// Convert a layout to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) so stages read
// in the same direction as the Sankey diagram. Node fill colours come from
// the layout's colour assignment.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

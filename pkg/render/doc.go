// Package render holds the renderers for sankeyflow layouts.
//
// # Overview
//
// Two visualizations share one computed layout:
//
//   - Sankey diagrams (in the [sankey] subpackage): stacked nodes per stage
//     joined by smooth gradient ribbons
//   - Node-link diagrams (in the [nodelink] subpackage): the same nodes as
//     Graphviz boxes with weighted edges
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The Sankey PDF sink and the
// node-link PNG/PDF output go through them.
//
//	svg, err := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// Sankey PNG output does not need librsvg: it is rasterized in-process.
//
// [sankey]: github.com/matzehuels/sankeyflow/pkg/render/sankey
// [nodelink]: github.com/matzehuels/sankeyflow/pkg/render/nodelink
package render

// Package sink provides output format renderers for Sankey layouts.
//
// # Overview
//
// A "sink" turns a computed [layout.Layout] into a final output format:
//
//   - SVG: vector output, ribbons as single gradient-filled paths
//   - PNG: raster output, drawn in-process with gogpu/gg
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: layout data export for external tools
//
// SVG and PNG implement [canvas.Canvas] and are fed by [sankey.Draw], so
// both show exactly the same primitives.
//
//	svg, err := sink.RenderSVG(l,
//	    sink.WithWidth(1200),
//	    sink.WithDrawOptions(sankey.WithTitles("2023", "2024")),
//	)
//	png, err := sink.RenderPNG(l, sink.WithScale(2))
//
// # Sizing
//
// [WithWidth] fixes the pixel width; the height follows from the layout's
// aspect ratio plus whatever room labels and titles need (see
// [sankey.Extent]). PNG output is additionally multiplied by [WithScale].
//
// # PDF Output
//
// [RenderPDF] generates SVG and converts it with [render.ToPDF]. This
// requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [layout.Layout]: github.com/matzehuels/sankeyflow/pkg/render/sankey/layout.Layout
// [canvas.Canvas]: github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas.Canvas
// [sankey.Draw]: github.com/matzehuels/sankeyflow/pkg/render/sankey.Draw
// [sankey.Extent]: github.com/matzehuels/sankeyflow/pkg/render/sankey.Extent
// [render.ToPDF]: github.com/matzehuels/sankeyflow/pkg/render.ToPDF
package sink

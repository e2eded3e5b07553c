package sink

import (
	"github.com/matzehuels/sankeyflow/pkg/render"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// RenderPDF renders the layout as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(l layout.Layout, opts ...Option) ([]byte, error) {
	svg, err := RenderSVG(l, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// DefaultMaxPenWidth is the edge width of the heaviest ribbon.
const DefaultMaxPenWidth = 12.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds node weights to labels and ribbon weights to edges.
	// When false, only the label is shown.
	Detailed bool

	// MaxPenWidth is the pen width of the heaviest edge; lighter edges
	// scale down linearly to a minimum of 1. Zero means DefaultMaxPenWidth.
	MaxPenWidth float64

	// Titles label each stage's rank.
	Titles []string
}

// ToDOT converts a layout to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(l layout.Layout, opts Options) string {
	maxPen := opts.MaxPenWidth
	if maxPen <= 0 {
		maxPen = DefaultMaxPenWidth
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for s, stage := range l.Nodes {
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph stage%d {\n    rank=same;\n", s)
		if s < len(opts.Titles) && opts.Titles[s] != "" {
			fmt.Fprintf(&buf, "    %q [label=%q, shape=plaintext, style=\"\", fontsize=16];\n",
				titleID(s), opts.Titles[s])
		}
		// Nodes are stored bottom to top; Graphviz lists them top down.
		for i := len(stage) - 1; i >= 0; i-- {
			n := stage[i]
			fmt.Fprintf(&buf, "    %q [%s];\n", nodeID(n.Stage, n.Label), strings.Join(nodeAttrs(n, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	maxW := 0.0
	for _, r := range l.Ribbons {
		maxW = max(maxW, r.LeftWeight, r.RightWeight)
	}

	buf.WriteString("\n")
	for s := 0; s+1 < len(l.Nodes) && s+1 < len(opts.Titles); s++ {
		if opts.Titles[s] != "" && opts.Titles[s+1] != "" {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", titleID(s), titleID(s+1))
		}
	}
	for _, r := range l.Ribbons {
		// Flows from or into labels dropped for zero weight have no node.
		if _, ok := l.Node(r.Stage, r.Left); !ok {
			continue
		}
		if _, ok := l.Node(r.Stage+1, r.Right); !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n",
			nodeID(r.Stage, r.Left), nodeID(r.Stage+1, r.Right), strings.Join(edgeAttrs(l, r, maxW, maxPen, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(stage int, label string) string {
	return strconv.Itoa(stage) + ":" + label
}

func titleID(stage int) string {
	return "title:" + strconv.Itoa(stage)
}

func nodeAttrs(n layout.Node, detailed bool) []string {
	label := n.Label
	if detailed {
		label += "\n" + strconv.FormatFloat(n.Weight, 'g', 6, 64)
	}
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", n.Color.Hex()),
	}
	if luminance(n.Color.R, n.Color.G, n.Color.B) < 0.5 {
		attrs = append(attrs, "fontcolor=white")
	}
	return attrs
}

func edgeAttrs(l layout.Layout, r layout.Ribbon, maxW, maxPen float64, detailed bool) []string {
	w := max(r.LeftWeight, r.RightWeight)
	pen := 1.0
	if maxW > 0 {
		pen = max(1, maxPen*w/maxW)
	}
	color := "#999999"
	if n, ok := l.Node(r.Stage, r.Left); ok {
		color = n.Color.Hex() + "99"
	}
	attrs := []string{
		fmt.Sprintf("penwidth=%.2f", pen),
		fmt.Sprintf("color=%q", color),
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(w, 'g', 6, 64)))
	}
	return attrs
}

// luminance is the relative luminance of an sRGB colour, used to keep
// labels readable on dark fills.
func luminance(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg element with a plain
// pixel one so the output scales like the Sankey SVG.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

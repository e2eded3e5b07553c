package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/render/nodelink"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var (
		artifacts map[string][]byte
		err       error
	)
	if opts.IsNodelink() {
		artifacts, err = renderNodelink(ctx, l, opts)
	} else {
		artifacts, err = renderSankey(l, opts)
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// renderSankey generates Sankey outputs.
func renderSankey(l layout.Layout, opts Options) (map[string][]byte, error) {
	sinkOpts, err := opts.SinkOptions()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte

		switch format {
		case FormatSVG:
			data, err = sink.RenderSVG(l, sinkOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sinkOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(l, sinkOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONTitles(opts.Titles...))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sankey format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderNodelink generates node-link outputs. JSON is the same layout
// export as for Sankey output.
func renderNodelink(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: opts.LabelValues, Titles: opts.Titles})

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONTitles(opts.Titles...))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

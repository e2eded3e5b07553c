package cli

import (
	"github.com/spf13/pflag"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// optionFlags binds command-line flags to pipeline options. Only flags the
// user actually set override values from the config file.
type optionFlags struct {
	fs      *pflag.FlagSet
	setters []func(*pipeline.Options)
}

func newOptionFlags(fs *pflag.FlagSet) *optionFlags {
	return &optionFlags{fs: fs}
}

// bind registers a setter that runs only when flag name was changed.
func bind[T any](f *optionFlags, name string, p *T, set func(*pipeline.Options, T)) {
	f.setters = append(f.setters, func(o *pipeline.Options) {
		if f.fs.Changed(name) {
			set(o, *p)
		}
	})
}

func (f *optionFlags) String(name, short, usage string, set func(*pipeline.Options, string)) {
	bind(f, name, f.fs.StringP(name, short, "", usage), set)
}

func (f *optionFlags) Float(name, usage string, set func(*pipeline.Options, float64)) {
	bind(f, name, f.fs.Float64(name, 0, usage), set)
}

func (f *optionFlags) Bool(name, usage string, set func(*pipeline.Options, bool)) {
	bind(f, name, f.fs.Bool(name, false, usage), set)
}

func (f *optionFlags) Strings(name, usage string, set func(*pipeline.Options, []string)) {
	bind(f, name, f.fs.StringSlice(name, nil, usage), set)
}

func (f *optionFlags) apply(o *pipeline.Options) {
	for _, set := range f.setters {
		set(o)
	}
}

// addLayoutFlags registers the flags that change node placement.
func addLayoutFlags(f *optionFlags) {
	f.String("sort", "", "node order within a stage: bottom (default), top, none",
		func(o *pipeline.Options, v string) { o.Sort = v })
	f.String("valign", "", "alignment of short columns: bottom (default), top, center",
		func(o *pipeline.Options, v string) { o.VAlign = v })
	f.Float("node-gap", "vertical gap between nodes as a fraction of the largest stage total",
		func(o *pipeline.Options, v float64) { o.NodeGap = v })
	f.Float("node-width", "node width as a fraction of the plot height",
		func(o *pipeline.Options, v float64) { o.NodeWidth = v })
	f.Float("aspect", "plot height to stage spacing ratio",
		func(o *pipeline.Options, v float64) { o.Aspect = v })
	f.String("colormap", "", "colormap for labels without an explicit colour, or none",
		func(o *pipeline.Options, v string) { o.Colormap = v })
}

// addDrawFlags registers the flags that change appearance only.
func addDrawFlags(f *optionFlags) {
	f.Strings("titles", "stage titles (comma-separated)",
		func(o *pipeline.Options, v []string) { o.Titles = v })
	f.Strings("label-loc", "label placement for first,middle,last stages (left, right, both, center, none)",
		func(o *pipeline.Options, v []string) { o.LabelLoc = v })
	f.Bool("label-values", "append node weights to labels",
		func(o *pipeline.Options, v bool) { o.LabelValues = v })
	f.Float("flow-alpha", "ribbon opacity",
		func(o *pipeline.Options, v float64) { o.FlowAlpha = v })
	f.Bool("flow-edge", "outline ribbons",
		func(o *pipeline.Options, v bool) { o.FlowEdge = v })
	f.Bool("node-edge", "outline nodes",
		func(o *pipeline.Options, v bool) { o.NodeEdge = v })
	f.Float("font-size", "label font size in pixels",
		func(o *pipeline.Options, v float64) { o.FontSize = v })
	f.String("background", "", "background colour",
		func(o *pipeline.Options, v string) { o.Background = v })
}

// addOutputFlags registers the flags that select output formats and size.
func addOutputFlags(f *optionFlags) {
	f.String("type", "t", "visualization type: sankey (default), nodelink",
		func(o *pipeline.Options, v string) { o.VizType = v })
	f.String("format", "f", "output format(s): svg (default), png, pdf, json (comma-separated)",
		func(o *pipeline.Options, v string) { o.Formats = parseFormats(v) })
	f.Float("width", "output width in pixels",
		func(o *pipeline.Options, v float64) { o.Width = v })
	f.Float("scale", "PNG resolution multiplier",
		func(o *pipeline.Options, v float64) { o.Scale = v })
}

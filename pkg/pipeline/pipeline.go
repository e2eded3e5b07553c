// Package pipeline provides the core visualization pipeline for sankeyflow.
//
// This package implements the complete import → layout → render pipeline
// used by the CLI and the HTTP API. By centralizing this logic, both entry
// points share defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Import: Read a table from CSV, TSV or JSON
//  2. Layout: Aggregate, stack and connect nodes ([layout.Build])
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Titles:  []string{"2023", "2024"},
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, t, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// # Options as Configuration
//
// [Options] carries json, toml and yaml tags, so the same struct is the
// HTTP request body, the config file schema and the CLI flag target. Zero
// values mean "use the default"; [Options.ValidateAndSetDefaults] fills
// them in.
//
// [layout.Build]: github.com/matzehuels/sankeyflow/pkg/render/sankey/layout.Build
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default output width in pixels.
	DefaultWidth = sink.DefaultWidth

	// DefaultScale is the default PNG resolution multiplier.
	DefaultScale = sink.DefaultScale

	// DefaultMargin is the default pixel margin around the drawing.
	DefaultMargin = sankey.DefaultMargin
)

// Visualization types.
const (
	VizTypeSankey   = "sankey"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeSankey

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeSankey:   true,
	VizTypeNodelink: true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
type Options struct {
	// Layout options
	Sort         string             `json:"sort,omitempty" toml:"sort" yaml:"sort,omitempty"`
	SortWeights  map[string]float64 `json:"sort_weights,omitempty" toml:"sort_weights" yaml:"sort_weights,omitempty"`
	LabelOrder   [][]string         `json:"label_order,omitempty" toml:"label_order" yaml:"label_order,omitempty"`
	VAlign       string             `json:"valign,omitempty" toml:"valign" yaml:"valign,omitempty"`
	NodeGap      float64            `json:"node_gap,omitempty" toml:"node_gap" yaml:"node_gap,omitempty"`
	NodeWidth    float64            `json:"node_width,omitempty" toml:"node_width" yaml:"node_width,omitempty"`
	Aspect       float64            `json:"aspect,omitempty" toml:"aspect" yaml:"aspect,omitempty"`
	LabelGap     float64            `json:"label_gap,omitempty" toml:"label_gap" yaml:"label_gap,omitempty"`
	LabelWidth   float64            `json:"label_width,omitempty" toml:"label_width" yaml:"label_width,omitempty"`
	CurveSamples int                `json:"curve_samples,omitempty" toml:"curve_samples" yaml:"curve_samples,omitempty"`
	CurveKernel  int                `json:"curve_kernel,omitempty" toml:"curve_kernel" yaml:"curve_kernel,omitempty"`
	CurvePasses  int                `json:"curve_passes,omitempty" toml:"curve_passes" yaml:"curve_passes,omitempty"`
	Colormap     string             `json:"colormap,omitempty" toml:"colormap" yaml:"colormap,omitempty"`
	Colors       map[string]string  `json:"colors,omitempty" toml:"colors" yaml:"colors,omitempty"`

	// Draw options
	FlowAlpha     float64           `json:"flow_alpha,omitempty" toml:"flow_alpha" yaml:"flow_alpha,omitempty"`
	FlowEdge      bool              `json:"flow_edge,omitempty" toml:"flow_edge" yaml:"flow_edge,omitempty"`
	NodeAlpha     float64           `json:"node_alpha,omitempty" toml:"node_alpha" yaml:"node_alpha,omitempty"`
	NodeEdge      bool              `json:"node_edge,omitempty" toml:"node_edge" yaml:"node_edge,omitempty"`
	LabelLoc      []string          `json:"label_loc,omitempty" toml:"label_loc" yaml:"label_loc,omitempty"` // first, middle, last
	LabelDict     map[string]string `json:"label_dict,omitempty" toml:"label_dict" yaml:"label_dict,omitempty"`
	LabelValues   bool              `json:"label_values,omitempty" toml:"label_values" yaml:"label_values,omitempty"`
	ValueFormat   string            `json:"value_format,omitempty" toml:"value_format" yaml:"value_format,omitempty"`
	Titles        []string          `json:"titles,omitempty" toml:"titles" yaml:"titles,omitempty"`
	TitleSide     string            `json:"title_side,omitempty" toml:"title_side" yaml:"title_side,omitempty"`
	TitleLoc      string            `json:"title_loc,omitempty" toml:"title_loc" yaml:"title_loc,omitempty"`
	TitleGap      float64           `json:"title_gap,omitempty" toml:"title_gap" yaml:"title_gap,omitempty"`
	FrameSide     string            `json:"frame_side,omitempty" toml:"frame_side" yaml:"frame_side,omitempty"`
	FrameGap      float64           `json:"frame_gap,omitempty" toml:"frame_gap" yaml:"frame_gap,omitempty"`
	FrameColor    string            `json:"frame_color,omitempty" toml:"frame_color" yaml:"frame_color,omitempty"`
	FontFamily    string            `json:"font_family,omitempty" toml:"font_family" yaml:"font_family,omitempty"`
	FontSize      float64           `json:"font_size,omitempty" toml:"font_size" yaml:"font_size,omitempty"`
	FontColor     string            `json:"font_color,omitempty" toml:"font_color" yaml:"font_color,omitempty"`
	TitleFontSize float64           `json:"title_font_size,omitempty" toml:"title_font_size" yaml:"title_font_size,omitempty"`
	Background    string            `json:"background,omitempty" toml:"background" yaml:"background,omitempty"`
	Margin        float64           `json:"margin,omitempty" toml:"margin" yaml:"margin,omitempty"`

	// Output options
	VizType string   `json:"viz_type,omitempty" toml:"viz_type" yaml:"viz_type,omitempty"`
	Formats []string `json:"formats,omitempty" toml:"formats" yaml:"formats,omitempty"`
	Width   float64  `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	Scale   float64  `json:"scale,omitempty" toml:"scale" yaml:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// TableHash is the content hash of the input table.
	TableHash string

	// Layout is the computed geometry.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount    int
	StageCount  int
	NodeCount   int
	RibbonCount int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid viz_type: %q (must be one of: sankey, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every option.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()

	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if len(o.LabelLoc) != 3 {
		return errors.New(errors.ErrCodeInvalidOption, "label_loc needs 3 entries (first, middle, last), got %d", len(o.LabelLoc))
	}
	if err := errors.ValidatePositive("width", o.Width); err != nil {
		return err
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if _, err := o.layoutConfig(); err != nil {
		return err
	}
	if _, err := o.drawOptions(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults fills unset layout options.
func (o *Options) SetLayoutDefaults() {
	d := layout.DefaultConfig()
	if o.Sort == "" {
		o.Sort = string(d.Sort)
	}
	if o.VAlign == "" {
		o.VAlign = string(d.VAlign)
	}
	if o.NodeGap == 0 {
		o.NodeGap = d.NodeGap
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = d.NodeWidth
	}
	if o.Aspect == 0 {
		o.Aspect = d.Aspect
	}
	if o.LabelGap == 0 {
		o.LabelGap = d.LabelGap
	}
	if o.CurveSamples == 0 {
		o.CurveSamples = d.Curve.Samples
	}
	if o.CurveKernel == 0 {
		o.CurveKernel = d.Curve.Kernel
	}
	if o.CurvePasses == 0 {
		o.CurvePasses = d.Curve.Passes
	}
	if o.Colormap == "" {
		o.Colormap = d.Colormap
	}
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills unset draw and output options.
func (o *Options) SetRenderDefaults() {
	d := sankey.DefaultOptions()
	if o.FlowAlpha == 0 {
		o.FlowAlpha = d.FlowAlpha
	}
	if o.NodeAlpha == 0 {
		o.NodeAlpha = d.NodeAlpha
	}
	if len(o.LabelLoc) == 0 {
		o.LabelLoc = []string{string(d.LabelLoc[0]), string(d.LabelLoc[1]), string(d.LabelLoc[2])}
	}
	if o.ValueFormat == "" {
		o.ValueFormat = d.ValueFormat
	}
	if o.TitleSide == "" {
		o.TitleSide = string(d.TitleSide)
	}
	if o.TitleLoc == "" {
		o.TitleLoc = string(d.TitleLoc)
	}
	if o.TitleGap == 0 {
		o.TitleGap = d.TitleGap
	}
	if o.FrameSide == "" {
		o.FrameSide = string(d.FrameSide)
	}
	if o.FrameGap == 0 {
		o.FrameGap = d.FrameGap
	}
	if o.FontFamily == "" {
		o.FontFamily = d.Font.Family
	}
	if o.FontSize == 0 {
		o.FontSize = d.Font.Size
	}
	if o.TitleFontSize == 0 {
		o.TitleFontSize = d.TitleFont.Size
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// LayoutOptions converts the layout fields to [layout.Option]s.
func (o *Options) LayoutOptions() ([]layout.Option, error) {
	cfg, err := o.layoutConfig()
	if err != nil {
		return nil, err
	}
	return []layout.Option{layout.WithConfig(cfg)}, nil
}

func (o *Options) layoutConfig() (layout.Config, error) {
	palette, err := colors.ParseMap(o.Colors)
	if err != nil {
		return layout.Config{}, err
	}
	cfg := layout.Config{
		Sort:        layout.Sort(o.Sort),
		SortWeights: o.SortWeights,
		LabelOrder:  o.LabelOrder,
		VAlign:      layout.VAlign(o.VAlign),
		NodeGap:     o.NodeGap,
		NodeWidth:   o.NodeWidth,
		Aspect:      o.Aspect,
		LabelGap:    o.LabelGap,
		LabelWidth:  o.LabelWidth,
		Curve: layout.CurveOptions{
			Samples: o.CurveSamples,
			Kernel:  o.CurveKernel,
			Passes:  o.CurvePasses,
		},
		Colormap: o.Colormap,
		Colors:   palette,
	}
	if err := cfg.Validate(); err != nil {
		return layout.Config{}, err
	}
	if _, err := colors.LookupColormap(cfg.Colormap); err != nil && cfg.Colormap != colors.NoColormap {
		return layout.Config{}, err
	}
	return cfg, nil
}

// DrawOptions converts the draw fields to [sankey.Option]s.
func (o *Options) DrawOptions() ([]sankey.Option, error) {
	d, err := o.drawOptions()
	if err != nil {
		return nil, err
	}
	return []sankey.Option{sankey.WithOptions(d)}, nil
}

func (o *Options) drawOptions() (sankey.Options, error) {
	d := sankey.DefaultOptions()
	d.FlowAlpha = o.FlowAlpha
	d.FlowEdge = o.FlowEdge
	d.NodeAlpha = o.NodeAlpha
	d.NodeEdge = o.NodeEdge
	for i := 0; i < 3 && i < len(o.LabelLoc); i++ {
		d.LabelLoc[i] = sankey.LabelLoc(o.LabelLoc[i])
	}
	d.LabelDict = o.LabelDict
	d.LabelValues = o.LabelValues
	d.ValueFormat = o.ValueFormat
	d.Titles = o.Titles
	d.TitleSide = sankey.Side(o.TitleSide)
	d.TitleLoc = sankey.TitleLoc(o.TitleLoc)
	d.TitleGap = o.TitleGap
	d.FrameSide = sankey.Side(o.FrameSide)
	d.FrameGap = o.FrameGap
	d.Font.Family = o.FontFamily
	d.Font.Size = o.FontSize
	d.TitleFont.Size = o.TitleFontSize
	d.Margin = o.Margin

	for _, c := range []struct {
		name string
		src  string
		dst  *colors.RGBA
	}{
		{"frame_color", o.FrameColor, &d.FrameColor},
		{"font_color", o.FontColor, &d.Font.Color},
		{"background", o.Background, &d.Background},
	} {
		if c.src == "" {
			continue
		}
		v, err := colors.Parse(c.src)
		if err != nil {
			return d, errors.Wrap(errors.ErrCodeInvalidColor, err, "%s", c.name)
		}
		*c.dst = v
	}

	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

// SinkOptions returns the options for the SVG, PNG and PDF sinks.
func (o *Options) SinkOptions() ([]sink.Option, error) {
	draw, err := o.DrawOptions()
	if err != nil {
		return nil, err
	}
	return []sink.Option{
		sink.WithWidth(o.Width),
		sink.WithScale(o.Scale),
		sink.WithDrawOptions(draw...),
	}, nil
}

// layoutKeyFields is the subset of Options that determines a layout.
type layoutKeyFields struct {
	Sort        string             `json:"sort"`
	SortWeights map[string]float64 `json:"sort_weights"`
	LabelOrder  [][]string         `json:"label_order"`
	VAlign      string             `json:"valign"`
	Geometry    [5]float64         `json:"geometry"`
	Curve       [3]int             `json:"curve"`
	Colormap    string             `json:"colormap"`
	Colors      map[string]string  `json:"colors"`
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	h, _ := cache.HashJSON(layoutKeyFields{
		Sort:        o.Sort,
		SortWeights: o.SortWeights,
		LabelOrder:  o.LabelOrder,
		VAlign:      o.VAlign,
		Geometry:    [5]float64{o.NodeGap, o.NodeWidth, o.Aspect, o.LabelGap, o.LabelWidth},
		Curve:       [3]int{o.CurveSamples, o.CurveKernel, o.CurvePasses},
		Colormap:    o.Colormap,
		Colors:      o.Colors,
	})
	return cache.LayoutKeyOpts{VizType: o.VizType, OptionsHash: h}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	draw := *o
	draw.Logger = nil
	draw.Formats = nil
	draw.validated = false
	h, _ := cache.HashJSON(draw)
	return cache.ArtifactKeyOpts{
		Format:      format,
		Width:       int(o.Width),
		Scale:       o.Scale,
		OptionsHash: h,
	}
}

package sankey

import (
	"maps"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
)

// LabelLoc places node labels relative to their node.
type LabelLoc string

const (
	LabelLeft   LabelLoc = "left"
	LabelRight  LabelLoc = "right"
	LabelBoth   LabelLoc = "both"
	LabelCenter LabelLoc = "center"
	LabelNone   LabelLoc = "none"
)

// Side selects the top and/or bottom of the plot.
type Side string

const (
	SideNone   Side = "none"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideBoth   Side = "both"
)

func (s Side) top() bool    { return s == SideTop || s == SideBoth }
func (s Side) bottom() bool { return s == SideBottom || s == SideBoth }

// TitleLoc places titles next to their column or outside the frame.
type TitleLoc string

const (
	TitleInner TitleLoc = "inner"
	TitleOuter TitleLoc = "outer"
)

// Font describes text. Zero fields inherit from the base font.
type Font struct {
	Family string      `json:"family,omitempty"`
	Size   float64     `json:"size,omitempty"`
	Color  colors.RGBA `json:"color"`
	Weight string      `json:"weight,omitempty"`
	Style  string      `json:"style,omitempty"`
}

func (f Font) inherit(base Font) Font {
	if f.Family == "" {
		f.Family = base.Family
	}
	if f.Size == 0 {
		f.Size = base.Size
	}
	if f.Color.A == 0 {
		f.Color = base.Color
	}
	if f.Weight == "" {
		f.Weight = base.Weight
	}
	if f.Style == "" {
		f.Style = base.Style
	}
	return f
}

func (f Font) style(align canvas.HAlign, anchor canvas.VAnchor) canvas.TextStyle {
	return canvas.TextStyle{
		Family: f.Family,
		Size:   f.Size,
		Color:  f.Color,
		Weight: f.Weight,
		Style:  f.Style,
		Align:  align,
		Anchor: anchor,
	}
}

// Options controls everything drawn on top of the layout geometry.
type Options struct {
	FlowAlpha     float64
	FlowEdge      bool
	FlowEdgeWidth float64
	NodeAlpha     float64
	NodeEdge      bool

	LabelLoc    [3]LabelLoc // first, middle and last columns
	LabelDict   map[string]string
	LabelValues bool
	ValueFormat string // fmt verb for values, e.g. "%.1f"

	Titles    []string
	TitleSide Side
	TitleLoc  TitleLoc
	TitleGap  float64 // fraction of plot height

	FrameSide  Side
	FrameGap   float64 // fraction of plot height
	FrameColor colors.RGBA

	Font      Font
	LabelFont Font
	TitleFont Font

	Background colors.RGBA // transparent when A == 0
	Margin     float64     // pixels around everything
}

// Default drawing parameters.
const (
	DefaultFlowAlpha   = 0.65
	DefaultTitleGap    = 0.05
	DefaultFrameGap    = 0.1
	DefaultFontSize    = 12.0
	DefaultTitleSize   = 14.0
	DefaultFontFamily  = "sans-serif"
	DefaultValueFormat = "%g"
	DefaultMargin      = 10.0
)

// DefaultOptions returns the drawing defaults.
func DefaultOptions() Options {
	return Options{
		FlowAlpha:     DefaultFlowAlpha,
		FlowEdgeWidth: 1,
		NodeAlpha:     1,
		LabelLoc:      [3]LabelLoc{LabelLeft, LabelNone, LabelRight},
		ValueFormat:   DefaultValueFormat,
		TitleSide:     SideTop,
		TitleLoc:      TitleInner,
		TitleGap:      DefaultTitleGap,
		FrameSide:     SideNone,
		FrameGap:      DefaultFrameGap,
		FrameColor:    colors.Black,
		Font: Font{
			Family: DefaultFontFamily,
			Size:   DefaultFontSize,
			Color:  colors.Black,
			Weight: "normal",
			Style:  "normal",
		},
		TitleFont: Font{Size: DefaultTitleSize, Weight: "bold"},
		Margin:    DefaultMargin,
	}
}

// Validate checks option values.
func (o Options) Validate() error {
	for i, loc := range o.LabelLoc {
		if err := errors.ValidateChoice("label_loc", string(loc),
			string(LabelLeft), string(LabelRight), string(LabelBoth), string(LabelCenter), string(LabelNone)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidOption, err, "label_loc[%d]", i)
		}
	}
	if err := errors.ValidateChoice("title_side", string(o.TitleSide), string(SideTop), string(SideBottom), string(SideBoth), string(SideNone)); err != nil {
		return err
	}
	if err := errors.ValidateChoice("title_loc", string(o.TitleLoc), string(TitleInner), string(TitleOuter)); err != nil {
		return err
	}
	if err := errors.ValidateChoice("frame_side", string(o.FrameSide), string(SideNone), string(SideTop), string(SideBottom), string(SideBoth)); err != nil {
		return err
	}
	if err := errors.ValidateFraction("flow_alpha", o.FlowAlpha); err != nil {
		return err
	}
	if err := errors.ValidateFraction("node_alpha", o.NodeAlpha); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("title_gap", o.TitleGap); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("frame_gap", o.FrameGap); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("margin", o.Margin); err != nil {
		return err
	}
	if err := errors.ValidatePositive("font_size", o.Font.Size); err != nil {
		return err
	}
	return nil
}

func (o Options) labelFont() Font { return o.LabelFont.inherit(o.Font) }
func (o Options) titleFont() Font { return o.TitleFont.inherit(o.Font) }

// Option configures drawing.
type Option func(*Options)

// Resolve applies opts on top of [DefaultOptions].
func Resolve(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithOptions replaces the whole option set.
func WithOptions(src Options) Option { return func(o *Options) { *o = src } }

// WithFlowAlpha sets ribbon opacity.
func WithFlowAlpha(a float64) Option { return func(o *Options) { o.FlowAlpha = a } }

// WithFlowEdge strokes both ribbon edges.
func WithFlowEdge(width float64) Option {
	return func(o *Options) { o.FlowEdge = true; o.FlowEdgeWidth = width }
}

// WithNodeAlpha sets node opacity.
func WithNodeAlpha(a float64) Option { return func(o *Options) { o.NodeAlpha = a } }

// WithNodeEdge outlines every node in its own colour.
func WithNodeEdge() Option { return func(o *Options) { o.NodeEdge = true } }

// WithLabelLoc places labels of the first, middle and last columns.
func WithLabelLoc(first, middle, last LabelLoc) Option {
	return func(o *Options) { o.LabelLoc = [3]LabelLoc{first, middle, last} }
}

// WithLabelDict replaces label text, keyed by the label in the data.
func WithLabelDict(d map[string]string) Option {
	return func(o *Options) { o.LabelDict = maps.Clone(d) }
}

// WithLabelValues appends the node weight on a second label line.
func WithLabelValues(format string) Option {
	return func(o *Options) {
		o.LabelValues = true
		if format != "" {
			o.ValueFormat = format
		}
	}
}

// WithTitles names the stages in order.
func WithTitles(titles ...string) Option { return func(o *Options) { o.Titles = titles } }

// WithTitleSide places titles above, below or on both sides.
func WithTitleSide(s Side) Option { return func(o *Options) { o.TitleSide = s } }

// WithTitleLoc places titles next to each column or outside the frame.
func WithTitleLoc(l TitleLoc) Option { return func(o *Options) { o.TitleLoc = l } }

// WithTitleGap sets the distance between titles and what they annotate.
func WithTitleGap(g float64) Option { return func(o *Options) { o.TitleGap = g } }

// WithFrame draws horizontal rules.
func WithFrame(side Side, gap float64, color colors.RGBA) Option {
	return func(o *Options) { o.FrameSide, o.FrameGap, o.FrameColor = side, gap, color }
}

// WithFont sets the base font shared by labels and titles.
func WithFont(f Font) Option { return func(o *Options) { o.Font = f.inherit(o.Font) } }

// WithLabelFont overrides the label font.
func WithLabelFont(f Font) Option { return func(o *Options) { o.LabelFont = f } }

// WithTitleFont overrides the title font.
func WithTitleFont(f Font) Option { return func(o *Options) { o.TitleFont = f } }

// WithBackground fills the whole output with c.
func WithBackground(c colors.RGBA) Option { return func(o *Options) { o.Background = c } }

// WithMargin sets the pixel margin around the drawing.
func WithMargin(px float64) Option { return func(o *Options) { o.Margin = px } }

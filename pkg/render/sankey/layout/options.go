package layout

import (
	"maps"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
)

// Sort selects how nodes are ordered within a stage.
type Sort string

const (
	SortNone   Sort = "none"   // first appearance in the table
	SortTop    Sort = "top"    // largest totals at the top of the column
	SortBottom Sort = "bottom" // largest totals at the bottom of the column
)

// VAlign selects how columns shorter than the tallest one are placed.
type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignBottom VAlign = "bottom"
	VAlignCenter VAlign = "center"
)

// Scale returns the fraction of spare height placed below a column.
func (v VAlign) Scale() float64 {
	switch v {
	case VAlignTop:
		return 1
	case VAlignCenter:
		return 0.5
	default:
		return 0
	}
}

// Defaults used by [Build] when no option overrides them.
const (
	DefaultSort      = SortBottom
	DefaultVAlign    = VAlignBottom
	DefaultNodeGap   = 0.05
	DefaultNodeWidth = 0.02
	DefaultAspect    = 4.0
	DefaultLabelGap  = 0.01
)

// Config holds every layout parameter. The zero value is not usable;
// start from [DefaultConfig].
type Config struct {
	Sort        Sort
	SortWeights map[string]float64 // per-label sort key overrides
	LabelOrder  [][]string         // per-stage stacking order, bottom first
	VAlign      VAlign
	NodeGap     float64 // fraction of the largest stage total
	NodeWidth   float64 // fraction of SubWidth
	Aspect      float64 // PlotHeight / SubWidth
	LabelGap    float64 // fraction of SubWidth
	LabelWidth  float64 // fraction of SubWidth reserved on each side
	Curve       CurveOptions
	Colormap    string
	Colors      map[string]colors.RGBA
}

// DefaultConfig returns the configuration used when Build gets no options.
func DefaultConfig() Config {
	return Config{
		Sort:      DefaultSort,
		VAlign:    DefaultVAlign,
		NodeGap:   DefaultNodeGap,
		NodeWidth: DefaultNodeWidth,
		Aspect:    DefaultAspect,
		LabelGap:  DefaultLabelGap,
		Curve:     DefaultCurve(),
		Colormap:  colors.DefaultColormap,
	}
}

// Validate checks option values. It does not look at any table.
func (c Config) Validate() error {
	if err := errors.ValidateChoice("sort", string(c.Sort), string(SortNone), string(SortTop), string(SortBottom)); err != nil {
		return err
	}
	if err := errors.ValidateChoice("valign", string(c.VAlign), string(VAlignTop), string(VAlignBottom), string(VAlignCenter)); err != nil {
		return err
	}
	if err := errors.ValidatePositive("aspect", c.Aspect); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"node_gap", c.NodeGap},
		{"node_width", c.NodeWidth},
		{"label_gap", c.LabelGap},
		{"label_width", c.LabelWidth},
	} {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return err
		}
	}
	return c.Curve.Validate()
}

// Option configures [Build].
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option { return func(dst *Config) { *dst = c } }

// WithSort sets the node ordering within each stage.
func WithSort(s Sort) Option { return func(c *Config) { c.Sort = s } }

// WithSortWeights overrides the value nodes are sorted by, per label,
// without changing their drawn size.
func WithSortWeights(w map[string]float64) Option {
	return func(c *Config) { c.SortWeights = maps.Clone(w) }
}

// WithLabelOrder fixes the stacking order per stage, bottom first. A nil or
// empty entry leaves that stage to the sort mode.
func WithLabelOrder(order [][]string) Option {
	return func(c *Config) { c.LabelOrder = order }
}

// WithVAlign sets the vertical alignment of short columns.
func WithVAlign(v VAlign) Option { return func(c *Config) { c.VAlign = v } }

// WithNodeGap sets the gap between nodes as a fraction of the largest
// stage total.
func WithNodeGap(f float64) Option { return func(c *Config) { c.NodeGap = f } }

// WithNodeWidth sets the node width as a fraction of the stage spacing.
func WithNodeWidth(f float64) Option { return func(c *Config) { c.NodeWidth = f } }

// WithAspect sets the ratio of plot height to stage spacing.
func WithAspect(f float64) Option { return func(c *Config) { c.Aspect = f } }

// WithLabelGap sets the gap between a node and its label.
func WithLabelGap(f float64) Option { return func(c *Config) { c.LabelGap = f } }

// WithLabelWidth reserves horizontal room for labels left and right of the
// outermost columns.
func WithLabelWidth(f float64) Option { return func(c *Config) { c.LabelWidth = f } }

// WithCurve sets the ribbon smoothing parameters.
func WithCurve(o CurveOptions) Option { return func(c *Config) { c.Curve = o } }

// WithColormap sets the colormap for labels without explicit colours.
func WithColormap(name string) Option { return func(c *Config) { c.Colormap = name } }

// WithColors sets explicit label colours.
func WithColors(m map[string]colors.RGBA) Option {
	return func(c *Config) { c.Colors = maps.Clone(m) }
}

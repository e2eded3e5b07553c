package sink

import (
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey"
)

// Default output parameters.
const (
	DefaultWidth = 800.0
	DefaultScale = 2.0
)

// Option configures the SVG, PNG and PDF sinks.
type Option func(*renderer)

type renderer struct {
	draw  []sankey.Option
	width float64
	scale float64
}

// WithDrawOptions passes options through to [sankey.Draw].
func WithDrawOptions(opts ...sankey.Option) Option {
	return func(r *renderer) { r.draw = append(r.draw, opts...) }
}

// WithWidth sets the output width in pixels (default 800).
func WithWidth(px float64) Option { return func(r *renderer) { r.width = px } }

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

func newRenderer(opts ...Option) (renderer, sankey.Options, error) {
	r := renderer{width: DefaultWidth, scale: DefaultScale}
	for _, opt := range opts {
		opt(&r)
	}
	if err := errors.ValidatePositive("width", r.width); err != nil {
		return r, sankey.Options{}, err
	}
	if err := errors.ValidatePositive("scale", r.scale); err != nil {
		return r, sankey.Options{}, err
	}
	o := sankey.Resolve(r.draw...)
	if err := o.Validate(); err != nil {
		return r, o, err
	}
	return r, o, nil
}

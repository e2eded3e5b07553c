package layout

import "github.com/matzehuels/sankeyflow/pkg/errors"

// CurveOptions parameterises ribbon smoothing: a step of Samples values at
// the left end followed by Samples at the right end, smoothed by Passes
// moving averages of width Kernel.
type CurveOptions struct {
	Samples int `json:"samples"`
	Kernel  int `json:"kernel"`
	Passes  int `json:"passes"`
}

// DefaultCurve returns 50 samples per side and two passes of width 20,
// giving 62 points per curve.
func DefaultCurve() CurveOptions {
	return CurveOptions{Samples: 50, Kernel: 20, Passes: 2}
}

// Len returns the number of points a curve has.
func (o CurveOptions) Len() int {
	return 2*o.Samples - o.Passes*(o.Kernel-1)
}

// Validate rejects parameters that would not leave both ends of the step
// untouched by the filter.
func (o CurveOptions) Validate() error {
	if o.Samples < 1 || o.Kernel < 1 || o.Passes < 0 {
		return errors.New(errors.ErrCodeInvalidOption,
			"curve samples and kernel must be positive and passes non-negative, got %+v", o)
	}
	if o.Passes*(o.Kernel-1) >= o.Samples {
		return errors.New(errors.ErrCodeInvalidOption,
			"curve kernel %d over %d passes is too wide for %d samples", o.Kernel, o.Passes, o.Samples)
	}
	return nil
}

// Curve returns the smoothed transition from l to r. The first point is
// exactly l and the last exactly r. Options must be valid.
func Curve(l, r float64, o CurveOptions) []float64 {
	t := Profile(o)
	ys := make([]float64, len(t))
	for i, f := range t {
		ys[i] = l*(1-f) + r*f
	}
	return ys
}

// Profile returns the smoothed unit step that every curve is built from.
// It rises monotonically from exactly 0 to exactly 1.
func Profile(o CurveOptions) []float64 {
	step := make([]float64, 2*o.Samples)
	for i := o.Samples; i < len(step); i++ {
		step[i] = 1
	}
	for range o.Passes {
		step = boxFilter(step, o.Kernel)
	}
	return step
}

// boxFilter is a valid-mode convolution with a normalised box of width k.
func boxFilter(xs []float64, k int) []float64 {
	out := make([]float64, len(xs)-k+1)
	for i := range out {
		var sum float64
		for _, x := range xs[i : i+k] {
			sum += x
		}
		out[i] = sum / float64(k)
	}
	return out
}

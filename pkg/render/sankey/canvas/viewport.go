package canvas

import "math"

// Rect is an axis-aligned rectangle in data units.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Insets are pixel margins around the data area.
type Insets struct {
	Left, Right, Top, Bottom float64
}

// Add returns the element-wise sum.
func (in Insets) Add(o Insets) Insets {
	return Insets{in.Left + o.Left, in.Right + o.Right, in.Top + o.Top, in.Bottom + o.Bottom}
}

// Viewport maps data coordinates (y up) to device pixels (y down).
type Viewport struct {
	Data          Rect
	Pad           Insets
	Width, Height float64 // device size including padding
	scale         float64
}

// NewViewport fits data into a device of the given pixel width. The
// device height follows from the data aspect ratio plus padding.
func NewViewport(data Rect, width float64, pad Insets) Viewport {
	inner := width - pad.Left - pad.Right
	if inner < 1 {
		inner = 1
		width = inner + pad.Left + pad.Right
	}
	scale := 1.0
	if w := data.Width(); w > 0 {
		scale = inner / w
	}
	return Viewport{
		Data:   data,
		Pad:    pad,
		Width:  width,
		Height: data.Height()*scale + pad.Top + pad.Bottom,
		scale:  scale,
	}
}

// X maps a data x coordinate to pixels.
func (v Viewport) X(x float64) float64 {
	return v.Pad.Left + (x-v.Data.MinX)*v.scale
}

// Y maps a data y coordinate to pixels, flipping the axis.
func (v Viewport) Y(y float64) float64 {
	return v.Pad.Top + (v.Data.MaxY-y)*v.scale
}

// Scale returns pixels per data unit.
func (v Viewport) Scale() float64 { return v.scale }

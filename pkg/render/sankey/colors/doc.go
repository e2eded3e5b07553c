// Package colors provides the colour model used by Sankey layouts.
//
// # Overview
//
// Every node label is assigned one [RGBA] colour. Ribbons between two nodes
// blend from the left node's colour to the right node's colour, one sample
// per curve point, using [Interpolate].
//
// # Parsing
//
// [Parse] accepts hex strings (#rgb, #rrggbb, #rrggbbaa) and the SVG 1.1
// colour keywords ("steelblue", "tomato", ...):
//
//	c, err := colors.Parse("#1f77b4")
//
// # Colormaps
//
// When a label has no explicit colour, [Assign] samples a named [Colormap]
// at evenly spaced positions over all unique labels. The built-in maps are
// viridis (default), plasma, jet and grays. The special name "none" disables
// automatic assignment, in which case every label needs an override.
package colors

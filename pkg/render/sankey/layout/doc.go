// Package layout computes the geometry of a Sankey diagram.
//
// # Overview
//
// [Build] turns a [table.Table] into a [Layout] in four steps:
//
//  1. Aggregation: rows are grouped by label per stage and their weights
//     summed. Labels with zero total are dropped; the remaining nodes are
//     ordered by the configured [Sort] mode or an explicit label order.
//  2. Stacking: nodes are stacked bottom-up in each stage column with a gap
//     of NodeGap times the largest stage total between them. Shorter
//     columns are aligned against the tallest one by [VAlign].
//  3. Ribbons: every pair of labels that share at least one row between
//     adjacent stages gets a ribbon. Each node side hands out its height to
//     ribbons through a running accumulator, in left-node × right-node
//     order, so ribbons partition the node exactly when all rows flow on.
//  4. Curves and colours: ribbon edges are smoothed steps (see [Curve]) and
//     each curve sample gets a colour blended between the two node colours.
//
// # Coordinates
//
// Layout coordinates are data units with y pointing up. Heights are in
// weight units. The horizontal scale derives from the plot height:
// SubWidth = PlotHeight / Aspect is the distance between adjacent node
// columns, and node widths, label gaps and label bands are fractions of it.
//
// # Errors
//
// Build fails as a whole: it never returns a partial layout. The data
// errors are [errors.ErrCodeNullsPresent], [errors.ErrCodeLabelMismatch],
// [errors.ErrCodeMissingColor] and [errors.ErrCodeEmptyStage].
//
// [errors.ErrCodeNullsPresent]: github.com/matzehuels/sankeyflow/pkg/errors.ErrCodeNullsPresent
// [errors.ErrCodeLabelMismatch]: github.com/matzehuels/sankeyflow/pkg/errors.ErrCodeLabelMismatch
// [errors.ErrCodeMissingColor]: github.com/matzehuels/sankeyflow/pkg/errors.ErrCodeMissingColor
// [errors.ErrCodeEmptyStage]: github.com/matzehuels/sankeyflow/pkg/errors.ErrCodeEmptyStage
package layout

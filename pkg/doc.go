// Package pkg provides the core libraries for sankeyflow, a multi-stage
// Sankey diagram renderer.
//
// # Overview
//
// Sankeyflow reads a table where every row is one entity tracked across
// stages, holding a (label, weight) pair per stage. It aggregates the pairs
// into stacked nodes per stage, joins adjacent stages with smooth ribbons
// whose colour blends from source to target, and renders the result.
//
// # Architecture
//
// The typical data flow:
//
//	CSV / TSV / JSON table
//	         ↓
//	    [table] package (cells, validation, import)
//	         ↓
//	    [render/sankey/layout] (aggregate → stack → ribbons, colours)
//	         ↓
//	    [render/sankey] (draw onto a [render/sankey/canvas])
//	         ↓
//	    [render/sankey/sink] SVG / PNG / PDF / JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
//	    "github.com/matzehuels/sankeyflow/pkg/render/sankey/sink"
//	    "github.com/matzehuels/sankeyflow/pkg/table"
//	)
//
//	t := table.New(2).
//	    Append(table.Pair("apple", 3), table.Pair("apple", 3)).
//	    Append(table.Pair("pear", 2), table.Pair("plum", 2))
//
//	l, err := layout.Build(t, layout.WithSort(layout.SortTop))
//	if err != nil {
//	    return err
//	}
//	svg, err := sink.RenderSVG(l)
//
// # Main Packages
//
// [table] - The input model: rows of nullable (label, weight) cells, with
// CSV, TSV and JSON readers.
//
// [render/sankey/layout] - Node aggregation, sorting, stacking and ribbon
// geometry. All four data errors (NULLS_PRESENT, LABEL_MISMATCH,
// MISSING_COLOR, EMPTY_STAGE) are raised here.
//
// [render/sankey/colors] - Colour parsing, interpolation and colormaps.
//
// [render/sankey] - Drawing of frames, ribbons, nodes, labels and titles
// onto any [render/sankey/canvas] implementation.
//
// [render/sankey/sink] - SVG, PNG, PDF and JSON outputs.
//
// [render/nodelink] - An alternative Graphviz node-link view of the same
// layout.
//
// ## Infrastructure
//
// [pipeline] - The import → layout → render pipeline with caching, shared by
// the CLI and the HTTP API.
//
// [cache] - File, memory, Redis and null caches with content-addressed keys.
//
// [config] - TOML, YAML and JSON config files for pipeline options.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Structured error codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// [table]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/table
// [render/sankey]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/sankey
// [render/sankey/layout]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/sankey/layout
// [render/sankey/colors]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/sankey/colors
// [render/sankey/canvas]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas
// [render/sankey/sink]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/sankey/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/sankeyflow/pkg/errors
package pkg

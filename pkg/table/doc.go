// Package table holds the tabular input of a Sankey diagram.
//
// # Overview
//
// A [Table] is an ordered list of rows. Every row has one [Cell] per stage,
// and each cell pairs a label with a weight. On disk and on the wire the
// pairs are flattened into alternating label/weight columns:
//
//	year2020,w2020,year2021,w2021
//	apple,10,apple,8
//	apple,5,pear,5
//	pear,3,,
//
// A cell with a null label means the row does not take part in that stage;
// its weight is ignored. A labelled cell with a null weight is invalid and
// reported by [Table.Validate] as [errors.ErrCodeNullsPresent].
//
// # Reading Tables
//
//   - [ReadCSV]: comma or tab separated text, optional header row
//   - [ReadJSON]: {"titles": [...], "rows": [["a", 1, "b", 2], ...]}
//   - [ImportFile]: dispatch on file extension (.csv, .tsv, .json)
//
// Tables can also be built in code:
//
//	t := table.New(2).
//	    Append(table.Pair("a", 1), table.Pair("a", 1)).
//	    Append(table.Pair("b", 0.5), table.Pair("a", 0.5))
//
// [errors.ErrCodeNullsPresent]: github.com/matzehuels/sankeyflow/pkg/errors.ErrCodeNullsPresent
package table

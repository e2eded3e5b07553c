package table

import (
	"math"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Cell is one (label, weight) pair. Nil pointers are nulls.
type Cell struct {
	Label  *string
	Weight *float64
}

// Null is a cell that does not take part in its stage.
var Null = Cell{}

// L returns a pointer to s, for building cells literally.
func L(s string) *string { return &s }

// W returns a pointer to f, for building cells literally.
func W(f float64) *float64 { return &f }

// Pair returns a fully populated cell.
func Pair(label string, weight float64) Cell {
	return Cell{Label: L(label), Weight: W(weight)}
}

// Participates reports whether the cell takes part in its stage.
func (c Cell) Participates() bool { return c.Label != nil }

// LabelOr returns the label, or def for a null label.
func (c Cell) LabelOr(def string) string {
	if c.Label == nil {
		return def
	}
	return *c.Label
}

// Value returns the weight, treating null as zero.
func (c Cell) Value() float64 {
	if c.Weight == nil {
		return 0
	}
	return *c.Weight
}

// Row holds one cell per stage.
type Row []Cell

// Table is the input of a Sankey layout.
type Table struct {
	// Titles optionally names each stage (from a CSV header, for example).
	Titles []string
	Rows   []Row

	stages int
}

// New returns an empty table with a fixed number of stages.
func New(stages int) *Table {
	return &Table{stages: stages}
}

// Append adds a row and returns t for chaining.
func (t *Table) Append(cells ...Cell) *Table {
	t.Rows = append(t.Rows, Row(cells))
	return t
}

// Stages returns the number of stages, taken from the first row when the
// table was not created with [New].
func (t *Table) Stages() int {
	if t.stages > 0 {
		return t.stages
	}
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Validate checks the structural invariants every layout relies on.
func (t *Table) Validate() error {
	if t == nil || len(t.Rows) == 0 {
		return errors.New(errors.ErrCodeInvalidTable, "table has no rows")
	}
	n := t.Stages()
	if n < 2 {
		return errors.New(errors.ErrCodeInvalidTable, "table needs at least 2 stages, got %d", n)
	}
	if len(t.Titles) > 0 && len(t.Titles) != n {
		return errors.New(errors.ErrCodeInvalidTable, "got %d titles for %d stages", len(t.Titles), n)
	}
	for i, row := range t.Rows {
		if len(row) != n {
			return errors.New(errors.ErrCodeInvalidTable, "row %d has %d stages, want %d", i, len(row), n)
		}
		for s, c := range row {
			if !c.Participates() {
				continue
			}
			if c.Weight == nil || math.IsNaN(*c.Weight) {
				return errors.New(errors.ErrCodeNullsPresent,
					"row %d stage %d: label %q has no weight", i, s, *c.Label)
			}
			if w := *c.Weight; w < 0 || math.IsInf(w, 0) {
				return errors.New(errors.ErrCodeInvalidTable,
					"row %d stage %d: weight %v must be finite and non-negative", i, s, w)
			}
		}
	}
	return nil
}

// Labels returns every distinct non-null label in row-major order of first
// appearance.
func (t *Table) Labels() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range t.Rows {
		for _, c := range row {
			if !c.Participates() {
				continue
			}
			if _, ok := seen[*c.Label]; ok {
				continue
			}
			seen[*c.Label] = struct{}{}
			out = append(out, *c.Label)
		}
	}
	return out
}

// Hash returns a content hash of the table suitable for cache keys. Tables
// that cannot be serialised, such as ones holding infinite weights, are
// INVALID_TABLE.
func (t *Table) Hash() (string, error) {
	data, err := t.MarshalJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidTable, err, "hash table")
	}
	return cache.Hash(data), nil
}

package layout

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// stageNodes is the aggregated content of one stage.
type stageNodes struct {
	order   []string // stacking order, bottom first
	weights map[string]float64
	total   float64
}

// aggregate groups rows by label for every stage and orders the result.
func aggregate(t *table.Table, cfg Config) ([]stageNodes, error) {
	out := make([]stageNodes, t.Stages())
	for s := range out {
		st, observed := sumStage(t, s)
		if len(st.order) == 0 {
			return nil, errors.New(errors.ErrCodeEmptyStage, "stage %d has no label with non-zero weight", s)
		}

		if s < len(cfg.LabelOrder) && len(cfg.LabelOrder[s]) > 0 {
			order, err := applyLabelOrder(s, cfg.LabelOrder[s], st, observed)
			if err != nil {
				return nil, err
			}
			st.order = order
		} else {
			sortStage(&st, cfg.Sort, cfg.SortWeights)
		}
		out[s] = st
	}
	return out, nil
}

// sumStage returns the non-zero labels of stage s in first-appearance
// order, plus the set of every label observed there.
func sumStage(t *table.Table, s int) (stageNodes, map[string]bool) {
	st := stageNodes{weights: make(map[string]float64)}
	observed := make(map[string]bool)
	var seen []string
	for _, row := range t.Rows {
		c := row[s]
		if !c.Participates() {
			continue
		}
		label := *c.Label
		if !observed[label] {
			observed[label] = true
			seen = append(seen, label)
		}
		st.weights[label] += c.Value()
	}
	for _, label := range seen {
		if st.weights[label] == 0 {
			delete(st.weights, label)
			continue
		}
		st.order = append(st.order, label)
		st.total += st.weights[label]
	}
	return st, observed
}

// sortStage orders nodes by total (or sort key override). Sorting is
// stable so ties keep first-appearance order.
func sortStage(st *stageNodes, mode Sort, keys map[string]float64) {
	key := func(label string) float64 {
		if k, ok := keys[label]; ok {
			return k
		}
		return st.weights[label]
	}
	switch mode {
	case SortTop:
		slices.SortStableFunc(st.order, func(a, b string) int { return cmp.Compare(key(a), key(b)) })
	case SortBottom:
		slices.SortStableFunc(st.order, func(a, b string) int { return cmp.Compare(key(b), key(a)) })
	}
}

// applyLabelOrder checks an explicit order against the stage. Labels that
// were observed but dropped for zero weight may be listed and are skipped.
func applyLabelOrder(s int, order []string, st stageNodes, observed map[string]bool) ([]string, error) {
	listed := make(map[string]bool, len(order))
	var unknown []string
	out := make([]string, 0, len(st.order))
	for _, label := range order {
		if listed[label] {
			return nil, errors.New(errors.ErrCodeLabelMismatch, "stage %d: label %q listed twice", s, label)
		}
		listed[label] = true
		if !observed[label] {
			unknown = append(unknown, label)
			continue
		}
		if _, ok := st.weights[label]; ok {
			out = append(out, label)
		}
	}

	var missing []string
	for _, label := range st.order {
		if !listed[label] {
			missing = append(missing, label)
		}
	}
	if len(unknown) > 0 || len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeLabelMismatch,
			"stage %d: label order does not match data (not in data: [%s], not in order: [%s])",
			s, strings.Join(unknown, ", "), strings.Join(missing, ", "))
	}
	return out, nil
}

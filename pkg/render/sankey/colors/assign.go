package colors

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Assign builds the label colour table. Labels (in first-appearance order)
// receive evenly spaced samples of the named colormap; overrides replace
// individual entries. With colormap [NoColormap], overrides are the only
// source and any label without one is an [errors.ErrCodeMissingColor] error.
//
// Overrides for labels not in labels are kept so callers can share one
// palette across tables.
func Assign(labels []string, colormap string, overrides map[string]RGBA) (map[string]RGBA, error) {
	if colormap == "" {
		colormap = DefaultColormap
	}

	out := make(map[string]RGBA, len(labels)+len(overrides))
	if colormap != NoColormap {
		cm, err := LookupColormap(colormap)
		if err != nil {
			return nil, err
		}
		for i, c := range cm.Samples(len(labels)) {
			out[labels[i]] = c
		}
	}
	maps.Copy(out, overrides)

	if err := CheckCoverage(labels, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckCoverage reports a missing-colour error naming every label that has
// no entry in palette.
func CheckCoverage(labels []string, palette map[string]RGBA) error {
	var missing []string
	for _, l := range labels {
		if _, ok := palette[l]; !ok {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeMissingColor,
			"no colour assigned for labels: %s", strings.Join(missing, ", "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

type labelPair struct{ left, right string }

// ribbons builds the flows between every pair of adjacent stages.
func ribbons(t *table.Table, l Layout, co CurveOptions) []Ribbon {
	var out []Ribbon
	for s := 0; s < l.Stages-1; s++ {
		out = append(out, stageRibbons(t, l, s, co)...)
	}
	return out
}

// stageRibbons builds the flows from stage s to s+1. Flows are ordered by
// the stacking order of their left node, then of their right node. A label
// dropped for zero total has no node; its end of the flow collapses to a
// point level with the middle of the other end.
func stageRibbons(t *table.Table, l Layout, s int, co CurveOptions) []Ribbon {
	left, right := l.Nodes[s], l.Nodes[s+1]

	var pairs []labelPair
	lw := make(map[labelPair]float64)
	rw := make(map[labelPair]float64)
	for _, row := range t.Rows {
		a, b := row[s], row[s+1]
		if !a.Participates() || !b.Participates() {
			continue
		}
		p := labelPair{*a.Label, *b.Label}
		if _, ok := lw[p]; !ok {
			pairs = append(pairs, p)
		}
		lw[p] += a.Value()
		rw[p] += b.Value()
	}

	lrank, rrank := rankOf(left), rankOf(right)
	rank := func(m map[string]int, label string) int {
		if i, ok := m[label]; ok {
			return i
		}
		return len(m)
	}
	slices.SortStableFunc(pairs, func(x, y labelPair) int {
		if c := cmp.Compare(rank(lrank, x.left), rank(lrank, y.left)); c != 0 {
			return c
		}
		return cmp.Compare(rank(rrank, x.right), rank(rrank, y.right))
	})

	outflow := make(map[string]float64)
	inflow := make(map[string]float64)
	var flows []Ribbon
	for _, p := range pairs {
		if lw[p] == 0 && rw[p] == 0 {
			continue
		}
		flows = append(flows, Ribbon{
			Stage:       s,
			Left:        p.left,
			Right:       p.right,
			LeftWeight:  lw[p],
			RightWeight: rw[p],
		})
		outflow[p.left] += lw[p]
		inflow[p.right] += rw[p]
	}
	if len(flows) == 0 {
		return nil
	}

	// Partial flows are aligned within their node the same way short
	// columns are aligned within the plot.
	vscale := l.VAlign.Scale()
	lacc := make(map[string]float64, len(left))
	for _, n := range left {
		lacc[n.Label] = n.Bottom + vscale*(n.Weight-outflow[n.Label])
	}
	racc := make(map[string]float64, len(right))
	for _, n := range right {
		racc[n.Label] = n.Bottom + vscale*(n.Weight-inflow[n.Label])
	}

	xs := linspace(left[0].Right, right[0].Left, co.Len())
	for i := range flows {
		f := &flows[i]
		_, leftLive := lacc[f.Left]
		_, rightLive := racc[f.Right]
		if leftLive {
			f.LeftBottom = lacc[f.Left]
			f.LeftTop = f.LeftBottom + f.LeftWeight
			lacc[f.Left] = f.LeftTop
		}
		if rightLive {
			f.RightBottom = racc[f.Right]
			f.RightTop = f.RightBottom + f.RightWeight
			racc[f.Right] = f.RightTop
		}

		lc, rc := l.Colors[f.Left], l.Colors[f.Right]
		switch {
		case !leftLive:
			f.LeftBottom = (f.RightBottom + f.RightTop) / 2
			f.LeftTop = f.LeftBottom
			lc = rc
		case !rightLive:
			f.RightBottom = (f.LeftBottom + f.LeftTop) / 2
			f.RightTop = f.RightBottom
			rc = lc
		}

		f.X = xs
		f.Lower = Curve(f.LeftBottom, f.RightBottom, co)
		f.Upper = Curve(f.LeftTop, f.RightTop, co)
		f.Colors = colors.Interpolate(lc, rc, len(xs))
	}
	return flows
}

func rankOf(nodes []Node) map[string]int {
	m := make(map[string]int, len(nodes))
	for i, n := range nodes {
		m[n.Label] = i
	}
	return m
}

// linspace returns n evenly spaced values from a to b inclusive.
func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	for i := range out {
		out[i] = a + (b-a)*float64(i)/float64(n-1)
	}
	out[n-1] = b
	return out
}

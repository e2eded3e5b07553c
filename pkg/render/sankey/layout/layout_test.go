package layout

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

const eps = 1e-9

var approx = cmpopts.EquateApprox(0, eps)

func near(a, b float64) bool { return math.Abs(a-b) <= eps }

// mergeTable has labels {a,b} on the left all flowing into a on the right.
func mergeTable() *table.Table {
	return table.New(2).
		Append(table.Pair("a", 1.0), table.Pair("a", 1.0)).
		Append(table.Pair("b", 0.5), table.Pair("a", 0.5))
}

// fruitTable has three stages with labels moving between them.
func fruitTable() *table.Table {
	return table.New(3).
		Append(table.Pair("apple", 4), table.Pair("apple", 3), table.Pair("apple", 3)).
		Append(table.Pair("apple", 2), table.Pair("pear", 2), table.Pair("plum", 2)).
		Append(table.Pair("pear", 3), table.Pair("pear", 3), table.Pair("apple", 3)).
		Append(table.Pair("plum", 1), table.Pair("apple", 1), table.Pair("plum", 1))
}

func labelsOf(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func TestBuildMergeExample(t *testing.T) {
	l, err := Build(mergeTable())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	right, ok := l.Node(1, "a")
	if !ok {
		t.Fatal("right node a missing")
	}
	if !near(right.Weight, 1.5) {
		t.Errorf("right a weight = %v, want 1.5", right.Weight)
	}
	if !near(right.Height(), 1.5) {
		t.Errorf("right a height = %v, want 1.5", right.Height())
	}

	if got := labelsOf(l.Nodes[0]); !cmp.Equal(got, []string{"a", "b"}) {
		t.Errorf("stage 0 order = %v, want [a b] (largest at bottom)", got)
	}
	if len(l.Ribbons) != 2 {
		t.Fatalf("ribbons = %d, want 2", len(l.Ribbons))
	}

	want := []struct {
		left, right      string
		lb, lt, rb, rt   float64
		lweight, rweight float64
	}{
		{"a", "a", 0, 1, 0, 1, 1, 1},
		{"b", "a", 1.075, 1.575, 1, 1.5, 0.5, 0.5},
	}
	for i, w := range want {
		r := l.Ribbons[i]
		if r.Left != w.left || r.Right != w.right {
			t.Errorf("ribbon %d = %s->%s, want %s->%s", i, r.Left, r.Right, w.left, w.right)
		}
		got := []float64{r.LeftBottom, r.LeftTop, r.RightBottom, r.RightTop, r.LeftWeight, r.RightWeight}
		exp := []float64{w.lb, w.lt, w.rb, w.rt, w.lweight, w.rweight}
		if diff := cmp.Diff(exp, got, approx); diff != "" {
			t.Errorf("ribbon %d spans mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuildGeometry(t *testing.T) {
	l, err := Build(mergeTable())
	if err != nil {
		t.Fatal(err)
	}

	got := map[string]float64{
		"gap":        l.Gap,
		"plotHeight": l.PlotHeight,
		"subWidth":   l.SubWidth,
		"nodeWidth":  l.NodeWidth,
		"labelGap":   l.LabelGap,
		"plotWidth":  l.PlotWidth,
	}
	want := map[string]float64{
		"gap":        0.075,
		"plotHeight": 1.575,
		"subWidth":   0.39375,
		"nodeWidth":  0.007875,
		"labelGap":   0.0039375,
		"plotWidth":  0.417375,
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("geometry mismatch (-want +got):\n%s", diff)
	}

	a0, _ := l.Node(0, "a")
	a1, _ := l.Node(1, "a")
	if !near(a0.Left, l.LabelGap) {
		t.Errorf("stage 0 left = %v, want %v", a0.Left, l.LabelGap)
	}
	if !near(a1.Left-a0.Right, l.SubWidth) {
		t.Errorf("column spacing = %v, want %v", a1.Left-a0.Right, l.SubWidth)
	}
	if !near(a1.Right+l.LabelGap, l.PlotWidth) {
		t.Errorf("last column right + gap = %v, want PlotWidth %v", a1.Right+l.LabelGap, l.PlotWidth)
	}
}

func TestStageSumsEqualTotals(t *testing.T) {
	l, err := Build(fruitTable())
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{10, 9, 9}
	for s, nodes := range l.Nodes {
		var sum float64
		for _, n := range nodes {
			sum += n.Weight
		}
		if !near(sum, l.StageTotals[s]) || !near(sum, want[s]) {
			t.Errorf("stage %d: node sum %v, total %v, want %v", s, sum, l.StageTotals[s], want[s])
		}
	}
}

func TestRibbonsPartitionNodes(t *testing.T) {
	for _, valign := range []VAlign{VAlignBottom, VAlignCenter, VAlignTop} {
		t.Run(string(valign), func(t *testing.T) {
			tbl := table.New(3).
				Append(table.Pair("x", 2), table.Pair("y", 2), table.Pair("x", 2)).
				Append(table.Pair("x", 1), table.Pair("x", 1), table.Pair("y", 1)).
				Append(table.Pair("y", 3), table.Pair("y", 3), table.Pair("y", 3)).
				Append(table.Pair("z", 1), table.Pair("x", 1), table.Pair("x", 1))
			l, err := Build(tbl, WithVAlign(valign))
			if err != nil {
				t.Fatal(err)
			}

			type side struct {
				stage int
				label string
				out   bool
			}
			spans := make(map[side][][2]float64)
			for _, r := range l.Ribbons {
				spans[side{r.Stage, r.Left, true}] = append(spans[side{r.Stage, r.Left, true}], [2]float64{r.LeftBottom, r.LeftTop})
				spans[side{r.Stage + 1, r.Right, false}] = append(spans[side{r.Stage + 1, r.Right, false}], [2]float64{r.RightBottom, r.RightTop})
			}

			for key, ss := range spans {
				n, _ := l.Node(key.stage, key.label)
				if !near(ss[0][0], n.Bottom) {
					t.Errorf("%+v: first span starts at %v, node bottom %v", key, ss[0][0], n.Bottom)
				}
				for i := 1; i < len(ss); i++ {
					if !near(ss[i][0], ss[i-1][1]) {
						t.Errorf("%+v: span %d starts at %v, previous ends at %v", key, i, ss[i][0], ss[i-1][1])
					}
				}
				if last := ss[len(ss)-1][1]; !near(last, n.Top) {
					t.Errorf("%+v: last span ends at %v, node top %v", key, last, n.Top)
				}
			}
		})
	}
}

func TestRibbonCurveEndpoints(t *testing.T) {
	l, err := Build(fruitTable())
	if err != nil {
		t.Fatal(err)
	}
	n := DefaultCurve().Len()
	for i, r := range l.Ribbons {
		if len(r.X) != n || len(r.Lower) != n || len(r.Upper) != n || len(r.Colors) != n {
			t.Fatalf("ribbon %d: sample lengths %d/%d/%d/%d, want %d", i, len(r.X), len(r.Lower), len(r.Upper), len(r.Colors), n)
		}
		if r.Lower[0] != r.LeftBottom || r.Lower[n-1] != r.RightBottom {
			t.Errorf("ribbon %d lower ends = (%v, %v), want (%v, %v)", i, r.Lower[0], r.Lower[n-1], r.LeftBottom, r.RightBottom)
		}
		if r.Upper[0] != r.LeftTop || r.Upper[n-1] != r.RightTop {
			t.Errorf("ribbon %d upper ends = (%v, %v), want (%v, %v)", i, r.Upper[0], r.Upper[n-1], r.LeftTop, r.RightTop)
		}
		ln, _ := l.Node(r.Stage, r.Left)
		rn, _ := l.Node(r.Stage+1, r.Right)
		if r.X[0] != ln.Right || r.X[n-1] != rn.Left {
			t.Errorf("ribbon %d x range = [%v, %v], want [%v, %v]", i, r.X[0], r.X[n-1], ln.Right, rn.Left)
		}
		if r.Colors[0] != ln.Color || r.Colors[n-1] != rn.Color {
			t.Errorf("ribbon %d colour ends do not match node colours", i)
		}
	}
}

func TestSortModes(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("a", 1), table.Pair("z", 1)).
		Append(table.Pair("b", 3), table.Pair("z", 3)).
		Append(table.Pair("c", 2), table.Pair("z", 2))

	tests := []struct {
		sort Sort
		want []string
	}{
		{SortNone, []string{"a", "b", "c"}},
		{SortTop, []string{"a", "c", "b"}},
		{SortBottom, []string{"b", "c", "a"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			l, err := Build(tbl, WithSort(tt.sort))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, labelsOf(l.Nodes[0])); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSortIsStable(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("q", 1), table.Pair("z", 1)).
		Append(table.Pair("p", 1), table.Pair("z", 1)).
		Append(table.Pair("r", 1), table.Pair("z", 1))
	for _, s := range []Sort{SortTop, SortBottom} {
		l, err := Build(tbl, WithSort(s))
		if err != nil {
			t.Fatal(err)
		}
		if got := labelsOf(l.Nodes[0]); !cmp.Equal(got, []string{"q", "p", "r"}) {
			t.Errorf("%s: tie order = %v, want first appearance", s, got)
		}
	}
}

func TestSortWeights(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("small", 1), table.Pair("z", 1)).
		Append(table.Pair("big", 5), table.Pair("z", 5))
	l, err := Build(tbl, WithSort(SortBottom), WithSortWeights(map[string]float64{"small": 10}))
	if err != nil {
		t.Fatal(err)
	}
	if got := labelsOf(l.Nodes[0]); !cmp.Equal(got, []string{"small", "big"}) {
		t.Errorf("order = %v, want [small big]", got)
	}
	if n, _ := l.Node(0, "small"); !near(n.Height(), 1) {
		t.Errorf("sort weight changed node size: %v", n.Height())
	}
}

func TestLabelOrder(t *testing.T) {
	l, err := Build(fruitTable(), WithLabelOrder([][]string{{"plum", "pear", "apple"}}))
	if err != nil {
		t.Fatal(err)
	}
	if got := labelsOf(l.Nodes[0]); !cmp.Equal(got, []string{"plum", "pear", "apple"}) {
		t.Errorf("stage 0 = %v", got)
	}
	if got := labelsOf(l.Nodes[1]); got[0] != "pear" {
		t.Errorf("stage 1 should fall back to sorting, got %v", got)
	}
}

func TestLabelOrderMismatch(t *testing.T) {
	tests := []struct {
		name  string
		order []string
	}{
		{"missing observed label", []string{"apple", "pear"}},
		{"unknown label", []string{"apple", "pear", "plum", "kiwi"}},
		{"duplicate", []string{"apple", "pear", "plum", "pear"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(fruitTable(), WithLabelOrder([][]string{tt.order}))
			if !errors.Is(err, errors.ErrCodeLabelMismatch) {
				t.Errorf("error = %v, want LABEL_MISMATCH", err)
			}
		})
	}
}

func TestNullWeight(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("a", 1), table.Pair("b", 1)).
		Append(table.Cell{Label: table.L("a")}, table.Pair("b", 1))
	l, err := Build(tbl)
	if !errors.Is(err, errors.ErrCodeNullsPresent) {
		t.Fatalf("error = %v, want NULLS_PRESENT", err)
	}
	if l.Stages != 0 || l.Nodes != nil {
		t.Error("failed Build should return a zero Layout")
	}
}

func TestNullLabelSkipsStage(t *testing.T) {
	tbl := table.New(3).
		Append(table.Pair("a", 2), table.Pair("b", 2), table.Pair("c", 2)).
		Append(table.Pair("a", 1), table.Null, table.Pair("c", 1)).
		Append(table.Null, table.Pair("b", 1), table.Pair("c", 1))
	l, err := Build(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := l.Node(0, "a"); !near(n.Weight, 3) {
		t.Errorf("stage 0 a = %v, want 3", n.Weight)
	}
	if n, _ := l.Node(1, "b"); !near(n.Weight, 3) {
		t.Errorf("stage 1 b = %v, want 3", n.Weight)
	}
	if n, _ := l.Node(2, "c"); !near(n.Weight, 4) {
		t.Errorf("stage 2 c = %v, want 4", n.Weight)
	}
	for _, r := range l.Ribbons {
		if r.Stage == 0 && !near(r.LeftWeight, 2) {
			t.Errorf("stage 0 ribbon carries %v, want 2", r.LeftWeight)
		}
	}
}

func TestPartialFlowAlignment(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("a", 1), table.Pair("b", 1)).
		Append(table.Pair("a", 2), table.Null)

	tests := []struct {
		valign VAlign
		bottom float64
	}{
		{VAlignBottom, 0},
		{VAlignCenter, 1},
		{VAlignTop, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.valign), func(t *testing.T) {
			l, err := Build(tbl, WithVAlign(tt.valign))
			if err != nil {
				t.Fatal(err)
			}
			a, _ := l.Node(0, "a")
			r := l.Ribbons[0]
			if !near(r.LeftBottom-a.Bottom, tt.bottom) {
				t.Errorf("ribbon starts %v above node bottom, want %v", r.LeftBottom-a.Bottom, tt.bottom)
			}
		})
	}
}

func TestVAlignOffsets(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("a", 3), table.Pair("x", 1)).
		Append(table.Null, table.Pair("y", 1))

	tests := []struct {
		valign VAlign
		want   float64
	}{
		{VAlignBottom, 0},
		{VAlignCenter, 0.425},
		{VAlignTop, 0.85},
	}
	for _, tt := range tests {
		l, err := Build(tbl, WithVAlign(tt.valign))
		if err != nil {
			t.Fatal(err)
		}
		if !near(l.StageOffsets[1], tt.want) {
			t.Errorf("%s: offset = %v, want %v", tt.valign, l.StageOffsets[1], tt.want)
		}
		if !near(l.StageTop(1), l.StageOffsets[1]+2.15) {
			t.Errorf("%s: StageTop = %v", tt.valign, l.StageTop(1))
		}
	}
}

func TestZeroWeightLabelDropped(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("a", 1), table.Pair("b", 1)).
		Append(table.Pair("ghost", 0), table.Pair("b", 0))
	l, err := Build(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Node(0, "ghost"); ok {
		t.Error("zero-weight label should be dropped")
	}
	if _, ok := l.Colors["ghost"]; ok {
		t.Error("dropped label should not take a colormap slot")
	}
	if len(l.Ribbons) != 1 {
		t.Errorf("ribbons = %d, want 1", len(l.Ribbons))
	}
}

func TestZeroWeightSourceStillFeedsTarget(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("a", 0), table.Pair("b", 5)).
		Append(table.Pair("c", 1), table.Pair("b", 1))
	l, err := Build(tbl)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := l.Node(1, "b")
	if !ok {
		t.Fatal("node b missing")
	}
	if _, ok := l.Node(0, "a"); ok {
		t.Fatal("zero-weight label a should not be a node")
	}
	if len(l.Ribbons) != 2 {
		t.Fatalf("ribbons = %d, want 2", len(l.Ribbons))
	}

	// The flows into b tile it from bottom to top.
	y, in := b.Bottom, 0.0
	for _, r := range l.Ribbons {
		if !near(r.RightBottom, y) {
			t.Errorf("%s->%s starts at %v, want %v", r.Left, r.Right, r.RightBottom, y)
		}
		y = r.RightTop
		in += r.RightWeight
	}
	if !near(y, b.Top) || !near(in, b.Weight) {
		t.Errorf("inflow covers up to %v with weight %v, want %v and %v", y, in, b.Top, b.Weight)
	}

	r := l.Ribbons[1]
	if r.Left != "a" {
		t.Fatalf("second ribbon from %q, want a", r.Left)
	}
	if mid := (r.RightBottom + r.RightTop) / 2; !near(r.LeftBottom, mid) || !near(r.LeftTop, mid) {
		t.Errorf("left end = [%v, %v], want a point at %v", r.LeftBottom, r.LeftTop, mid)
	}
	if r.Colors[0] != b.Color || r.Colors[len(r.Colors)-1] != b.Color {
		t.Error("flow from a dropped label should take the colour of its target")
	}
}

func TestEmptyStage(t *testing.T) {
	tbl := table.New(2).
		Append(table.Pair("a", 1), table.Pair("b", 0)).
		Append(table.Pair("a", 1), table.Null)
	_, err := Build(tbl)
	if !errors.Is(err, errors.ErrCodeEmptyStage) {
		t.Errorf("error = %v, want EMPTY_STAGE", err)
	}
}

func TestMissingColor(t *testing.T) {
	_, err := Build(mergeTable(), WithColormap(colors.NoColormap),
		WithColors(map[string]colors.RGBA{"a": colors.Black}))
	if !errors.Is(err, errors.ErrCodeMissingColor) {
		t.Errorf("error = %v, want MISSING_COLOR", err)
	}

	l, err := Build(mergeTable(), WithColormap(colors.NoColormap),
		WithColors(map[string]colors.RGBA{"a": colors.Black, "b": colors.White}))
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := l.Node(0, "b"); n.Color != colors.White {
		t.Errorf("b colour = %v", n.Color)
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"sort", WithSort("sideways")},
		{"valign", WithVAlign("middle")},
		{"aspect", WithAspect(0)},
		{"gap", WithNodeGap(-1)},
		{"curve", WithCurve(CurveOptions{Samples: 5, Kernel: 20, Passes: 2})},
		{"colormap", WithColormap("rainbow")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(mergeTable(), tt.opt)
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("error = %v, want INVALID_OPTION", err)
			}
		})
	}
}

func TestInvalidTable(t *testing.T) {
	_, err := Build(table.New(1).Append(table.Pair("a", 1)))
	if !errors.Is(err, errors.ErrCodeInvalidTable) {
		t.Errorf("error = %v, want INVALID_TABLE", err)
	}
}

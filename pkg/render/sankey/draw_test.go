package sankey

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

func threeStage(t *testing.T) layout.Layout {
	t.Helper()
	tbl := table.New(3).
		Append(table.Pair("a", 2), table.Pair("x", 2), table.Pair("a", 2)).
		Append(table.Pair("b", 1), table.Pair("x", 1), table.Pair("b", 1)).
		Append(table.Pair("b", 1), table.Pair("y", 1), table.Pair("a", 1))
	l, err := layout.Build(tbl)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return l
}

func kinds(r *canvas.Recorder) []canvas.OpKind {
	out := make([]canvas.OpKind, len(r.Ops))
	for i, op := range r.Ops {
		out[i] = op.Kind
	}
	return out
}

func TestDrawOrder(t *testing.T) {
	l := threeStage(t)
	var rec canvas.Recorder
	err := Draw(&rec, l,
		WithFrame(SideBoth, 0.1, DefaultOptions().FrameColor),
		WithTitles("one", "two", "three"),
	)
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	// Frames first, then all bands, all rects and all text.
	got := kinds(&rec)
	rank := map[canvas.OpKind]int{canvas.OpPolyline: 0, canvas.OpBand: 1, canvas.OpRect: 2, canvas.OpText: 3}
	for i := 1; i < len(got); i++ {
		if rank[got[i]] < rank[got[i-1]] {
			t.Fatalf("op %d (%s) drawn after %s", i, got[i], got[i-1])
		}
	}
	if n := rec.Count(canvas.OpPolyline); n != 2 {
		t.Errorf("frames = %d, want 2", n)
	}
	if n := rec.Count(canvas.OpBand); n != len(l.Ribbons) {
		t.Errorf("bands = %d, want %d", n, len(l.Ribbons))
	}
	if n := rec.Count(canvas.OpRect); n != l.NodeCount() {
		t.Errorf("rects = %d, want %d", n, l.NodeCount())
	}
}

func TestDrawDefaultLabels(t *testing.T) {
	l := threeStage(t)
	var rec canvas.Recorder
	if err := Draw(&rec, l); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}

	// Default: first column labelled on the left, middle unlabelled, last on
	// the right.
	texts := rec.Texts()
	if len(texts) != len(l.Nodes[0])+len(l.Nodes[2]) {
		t.Fatalf("texts = %d, want %d", len(texts), len(l.Nodes[0])+len(l.Nodes[2]))
	}
	for _, op := range texts[:len(l.Nodes[0])] {
		n, _ := l.Node(0, op.Text)
		if op.Style.Align != canvas.AlignRight {
			t.Errorf("%s: align = %v, want right", op.Text, op.Style.Align)
		}
		if !cmp.Equal(op.X[0], n.Left-l.LabelGap) {
			t.Errorf("%s: x = %v, want %v", op.Text, op.X[0], n.Left-l.LabelGap)
		}
		if !cmp.Equal(op.Y[0], n.CenterY()) {
			t.Errorf("%s: y = %v, want %v", op.Text, op.Y[0], n.CenterY())
		}
	}
	for _, op := range texts[len(l.Nodes[0]):] {
		n, _ := l.Node(2, op.Text)
		if op.Style.Align != canvas.AlignLeft {
			t.Errorf("%s: align = %v, want left", op.Text, op.Style.Align)
		}
		if !cmp.Equal(op.X[0], n.Right+l.LabelGap) {
			t.Errorf("%s: x = %v, want %v", op.Text, op.X[0], n.Right+l.LabelGap)
		}
	}
}

func TestDrawLabelLoc(t *testing.T) {
	l := threeStage(t)
	tests := []struct {
		name   string
		locs   [3]LabelLoc
		expect int
	}{
		{"none", [3]LabelLoc{LabelNone, LabelNone, LabelNone}, 0},
		{"both middle", [3]LabelLoc{LabelNone, LabelBoth, LabelNone}, 2 * len(l.Nodes[1])},
		{"center all", [3]LabelLoc{LabelCenter, LabelCenter, LabelCenter}, l.NodeCount()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec canvas.Recorder
			if err := Draw(&rec, l, WithLabelLoc(tt.locs[0], tt.locs[1], tt.locs[2])); err != nil {
				t.Fatalf("Draw() error: %v", err)
			}
			if n := rec.Count(canvas.OpText); n != tt.expect {
				t.Errorf("texts = %d, want %d", n, tt.expect)
			}
		})
	}
}

func TestDrawLabelText(t *testing.T) {
	l := threeStage(t)
	var rec canvas.Recorder
	err := Draw(&rec, l,
		WithLabelLoc(LabelLeft, LabelNone, LabelNone),
		WithLabelDict(map[string]string{"a": "Alpha"}),
		WithLabelValues("%.1f"),
	)
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	var got []string
	for _, op := range rec.Texts() {
		got = append(got, op.Text)
	}
	// Stage 0 is sorted largest at the bottom: a (2) then b (2).
	want := []string{"Alpha\n2.0", "b\n2.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestDrawTitles(t *testing.T) {
	l := threeStage(t)
	h := l.PlotHeight

	tests := []struct {
		name  string
		opts  []Option
		wantY []float64
	}{
		{
			name:  "top inner",
			opts:  []Option{WithTitleSide(SideTop)},
			wantY: []float64{l.StageTop(0) + 0.05*h, l.StageTop(1) + 0.05*h},
		},
		{
			name:  "bottom inner",
			opts:  []Option{WithTitleSide(SideBottom)},
			wantY: []float64{l.StageOffsets[0] - 0.05*h, l.StageOffsets[1] - 0.05*h},
		},
		{
			name:  "top outer",
			opts:  []Option{WithTitleSide(SideTop), WithTitleLoc(TitleOuter)},
			wantY: []float64{h + 0.15*h, h + 0.15*h},
		},
		{
			name:  "bottom outer",
			opts:  []Option{WithTitleSide(SideBottom), WithTitleLoc(TitleOuter)},
			wantY: []float64{-0.15 * h, -0.15 * h},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec canvas.Recorder
			opts := append([]Option{
				WithLabelLoc(LabelNone, LabelNone, LabelNone),
				WithTitles("first", "", "third"),
			}, tt.opts...)
			if err := Draw(&rec, l, opts...); err != nil {
				t.Fatalf("Draw() error: %v", err)
			}
			texts := rec.Texts()
			if len(texts) != 2 {
				t.Fatalf("titles = %d, want 2 (empty title skipped)", len(texts))
			}
			if texts[0].Text != "first" || texts[1].Text != "third" {
				t.Errorf("titles = %q, %q", texts[0].Text, texts[1].Text)
			}
			// Stage 1 has no title, so the second run belongs to stage 2.
			wantY := []float64{tt.wantY[0], tt.wantY[1]}
			if tt.name == "top inner" {
				wantY[1] = l.StageTop(2) + 0.05*h
			}
			if tt.name == "bottom inner" {
				wantY[1] = l.StageOffsets[2] - 0.05*h
			}
			for i, op := range texts {
				if d := op.Y[0] - wantY[i]; d > 1e-9 || d < -1e-9 {
					t.Errorf("title %d y = %v, want %v", i, op.Y[0], wantY[i])
				}
				if op.Style.Weight != "bold" || op.Style.Size != DefaultTitleSize {
					t.Errorf("title %d font = %s %v", i, op.Style.Weight, op.Style.Size)
				}
			}
			if x := l.StageLeft(0) + l.NodeWidth/2; texts[0].X[0] != x {
				t.Errorf("title x = %v, want %v", texts[0].X[0], x)
			}
		})
	}
}

func TestDrawNodeAlphaAndEdges(t *testing.T) {
	l := threeStage(t)
	var rec canvas.Recorder
	err := Draw(&rec, l,
		WithLabelLoc(LabelNone, LabelNone, LabelNone),
		WithNodeAlpha(0.5),
		WithNodeEdge(),
		WithFlowEdge(2),
	)
	if err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if n, want := rec.Count(canvas.OpPolyline), 2*len(l.Ribbons)+l.NodeCount(); n != want {
		t.Errorf("polylines = %d, want %d", n, want)
	}
	for _, op := range rec.Ops {
		if op.Kind == canvas.OpRect && op.Colors[0].A != 0.5 {
			t.Errorf("node alpha = %v, want 0.5", op.Colors[0].A)
		}
		if op.Kind == canvas.OpBand && op.Alpha != DefaultFlowAlpha {
			t.Errorf("band alpha = %v, want %v", op.Alpha, DefaultFlowAlpha)
		}
	}
}

func TestDrawInvalidOptions(t *testing.T) {
	l := threeStage(t)
	tests := []struct {
		name string
		opt  Option
	}{
		{"flow alpha", WithFlowAlpha(1.5)},
		{"label loc", WithLabelLoc("up", LabelNone, LabelNone)},
		{"title side", WithTitleSide("sideways")},
		{"frame gap", WithFrame(SideTop, -1, DefaultOptions().FrameColor)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec canvas.Recorder
			err := Draw(&rec, l, tt.opt)
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Fatalf("Draw() error = %v, want INVALID_OPTION", err)
			}
			if len(rec.Ops) != 0 {
				t.Errorf("drew %d ops before failing", len(rec.Ops))
			}
		})
	}
}

func TestExtent(t *testing.T) {
	l := threeStage(t)

	r, pad := Extent(l, Resolve(WithMargin(0)))
	if r.MinX != 0 || r.MaxX != l.PlotWidth || r.MinY != 0 || r.MaxY != l.PlotHeight {
		t.Errorf("rect = %+v, want plot area", r)
	}
	if pad.Left <= 0 || pad.Right <= 0 {
		t.Errorf("insets = %+v, want room for outer labels", pad)
	}

	framed, _ := Extent(l, Resolve(WithFrame(SideBoth, 0.1, DefaultOptions().FrameColor)))
	if framed.MaxY <= l.PlotHeight || framed.MinY >= 0 {
		t.Errorf("framed rect = %+v, want frames included", framed)
	}

	_, padM := Extent(l, Resolve(WithMargin(20)))
	if d := padM.Left - pad.Left; d < 19.999 || d > 20.001 {
		t.Errorf("margin adds %v, want 20", d)
	}
}

func TestViewportFitsWidth(t *testing.T) {
	l := threeStage(t)
	vp := Viewport(l, 800, DefaultOptions())
	if vp.Width != 800 {
		t.Errorf("width = %v, want 800", vp.Width)
	}
	if got := vp.X(l.PlotWidth) + vp.Pad.Right; got < 799.999 || got > 800.001 {
		t.Errorf("right edge = %v, want 800", got)
	}
	if vp.Y(l.PlotHeight) >= vp.Y(0) {
		t.Error("y axis not flipped")
	}
}

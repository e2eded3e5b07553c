package layout

import (
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

// Node is one aggregated (stage, label) bar.
type Node struct {
	Stage       int
	Label       string
	Weight      float64
	Left, Right float64
	Bottom, Top float64
	Color       colors.RGBA
}

// Width returns the horizontal span of the node.
func (n Node) Width() float64 { return n.Right - n.Left }

// Height returns the vertical span of the node, which equals its weight.
func (n Node) Height() float64 { return n.Top - n.Bottom }

// CenterX returns the horizontal center point of the node.
func (n Node) CenterX() float64 { return (n.Left + n.Right) / 2 }

// CenterY returns the vertical center point of the node.
func (n Node) CenterY() float64 { return (n.Bottom + n.Top) / 2 }

// Ribbon is the flow band between a node at Stage and a node at Stage+1.
type Ribbon struct {
	Stage       int
	Left, Right string

	// LeftWeight and RightWeight are the sums of the left-stage and
	// right-stage weights of the rows this ribbon carries.
	LeftWeight, RightWeight float64

	// Allocated vertical spans at each end.
	LeftBottom, LeftTop   float64
	RightBottom, RightTop float64

	// Sampled edges: Upper and Lower are Y values at each X.
	X, Lower, Upper []float64
	Colors          []colors.RGBA
}

// Layout is the complete geometry of a diagram.
type Layout struct {
	Stages  int
	Nodes   [][]Node // per stage, bottom to top
	Ribbons []Ribbon // stage by stage, left node order × right node order, dropped labels last

	StageTotals  []float64
	StageHeights []float64 // totals plus gaps
	StageOffsets []float64 // bottom of each column

	PlotWidth, PlotHeight float64
	SubWidth              float64 // distance between adjacent columns
	NodeWidth             float64
	LabelGap, LabelWidth  float64
	Gap                   float64 // vertical gap between nodes
	VAlign                VAlign

	Colors map[string]colors.RGBA
}

// Node returns the node for label at stage.
func (l Layout) Node(stage int, label string) (Node, bool) {
	if stage < 0 || stage >= len(l.Nodes) {
		return Node{}, false
	}
	for _, n := range l.Nodes[stage] {
		if n.Label == label {
			return n, true
		}
	}
	return Node{}, false
}

// NodeCount returns the total number of nodes over all stages.
func (l Layout) NodeCount() int {
	n := 0
	for _, s := range l.Nodes {
		n += len(s)
	}
	return n
}

// StageLeft returns the x coordinate of the left edge of a stage column.
func (l Layout) StageLeft(stage int) float64 {
	return l.LabelGap + l.LabelWidth + float64(stage)*(l.SubWidth+l.NodeWidth)
}

// StageTop returns the top of a stage column.
func (l Layout) StageTop(stage int) float64 {
	return l.StageOffsets[stage] + l.StageHeights[stage]
}

// Build computes the layout of t. It fails as a whole on the first error.
func Build(t *table.Table, opts ...Option) (Layout, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}
	if err := t.Validate(); err != nil {
		return Layout{}, err
	}

	stages, err := aggregate(t, cfg)
	if err != nil {
		return Layout{}, err
	}

	palette, err := colors.Assign(nodeLabels(t, stages), cfg.Colormap, cfg.Colors)
	if err != nil {
		return Layout{}, err
	}

	l := stack(stages, cfg)
	l.Colors = palette
	for s := range l.Nodes {
		for i := range l.Nodes[s] {
			l.Nodes[s][i].Color = palette[l.Nodes[s][i].Label]
		}
	}

	l.Ribbons = ribbons(t, l, cfg.Curve)
	return l, nil
}

// nodeLabels lists the labels that are drawn, in row-major order of first
// appearance, so colormap spacing ignores labels dropped for zero weight.
func nodeLabels(t *table.Table, stages []stageNodes) []string {
	var out []string
	for _, label := range t.Labels() {
		for _, st := range stages {
			if _, ok := st.weights[label]; ok {
				out = append(out, label)
				break
			}
		}
	}
	return out
}

package sink

import (
	"encoding/json"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/colors"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	curves  bool
	titles  []string
	compact bool
}

// WithJSONCurves includes the sampled ribbon edges. Without it ribbons only
// carry their end spans.
func WithJSONCurves() JSONOption { return func(r *jsonRenderer) { r.curves = true } }

// WithJSONTitles records stage titles in the output.
func WithJSONTitles(titles ...string) JSONOption {
	return func(r *jsonRenderer) { r.titles = titles }
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Stages     int                    `json:"stages"`
	Titles     []string               `json:"titles,omitempty"`
	PlotWidth  float64                `json:"plot_width"`
	PlotHeight float64                `json:"plot_height"`
	NodeWidth  float64                `json:"node_width"`
	SubWidth   float64                `json:"sub_width"`
	Gap        float64                `json:"gap"`
	Totals     []float64              `json:"totals"`
	Offsets    []float64              `json:"offsets"`
	Nodes      []jsonNode             `json:"nodes"`
	Ribbons    []jsonRibbon           `json:"ribbons"`
	Colors     map[string]colors.RGBA `json:"colors"`
}

type jsonNode struct {
	Stage  int         `json:"stage"`
	Label  string      `json:"label"`
	Weight float64     `json:"weight"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Color  colors.RGBA `json:"color"`
}

type jsonRibbon struct {
	Stage      int           `json:"stage"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	FromWeight float64       `json:"from_weight"`
	ToWeight   float64       `json:"to_weight"`
	FromSpan   [2]float64    `json:"from_span"`
	ToSpan     [2]float64    `json:"to_span"`
	X          []float64     `json:"x,omitempty"`
	Lower      []float64     `json:"lower,omitempty"`
	Upper      []float64     `json:"upper,omitempty"`
	Colors     []colors.RGBA `json:"colors,omitempty"`
}

// RenderJSON exports the layout geometry as JSON: every node rectangle,
// every ribbon with its end spans, and the colour assignment. Coordinates
// are layout data units with y pointing up.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Stages:     l.Stages,
		Titles:     r.titles,
		PlotWidth:  l.PlotWidth,
		PlotHeight: l.PlotHeight,
		NodeWidth:  l.NodeWidth,
		SubWidth:   l.SubWidth,
		Gap:        l.Gap,
		Totals:     l.StageTotals,
		Offsets:    l.StageOffsets,
		Nodes:      make([]jsonNode, 0, l.NodeCount()),
		Ribbons:    make([]jsonRibbon, 0, len(l.Ribbons)),
		Colors:     l.Colors,
	}
	for _, stage := range l.Nodes {
		for _, n := range stage {
			out.Nodes = append(out.Nodes, jsonNode{
				Stage:  n.Stage,
				Label:  n.Label,
				Weight: n.Weight,
				X:      n.Left,
				Y:      n.Bottom,
				Width:  n.Width(),
				Height: n.Height(),
				Color:  n.Color,
			})
		}
	}
	for _, rb := range l.Ribbons {
		jr := jsonRibbon{
			Stage:      rb.Stage,
			From:       rb.Left,
			To:         rb.Right,
			FromWeight: rb.LeftWeight,
			ToWeight:   rb.RightWeight,
			FromSpan:   [2]float64{rb.LeftBottom, rb.LeftTop},
			ToSpan:     [2]float64{rb.RightBottom, rb.RightTop},
		}
		if r.curves {
			jr.X, jr.Lower, jr.Upper, jr.Colors = rb.X, rb.Lower, rb.Upper, rb.Colors
		}
		out.Ribbons = append(out.Ribbons, jr)
	}

	var (
		data []byte
		err  error
	)
	if r.compact {
		data, err = json.Marshal(out)
	} else {
		data, err = json.MarshalIndent(out, "", "  ")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	return data, nil
}

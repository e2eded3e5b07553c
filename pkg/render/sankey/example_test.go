package sankey_test

import (
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/render/sankey"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/canvas"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/layout"
	"github.com/matzehuels/sankeyflow/pkg/table"
)

func ExampleDraw() {
	t := table.New(2).
		Append(table.Pair("a", 1.0), table.Pair("a", 1.0)).
		Append(table.Pair("b", 0.5), table.Pair("a", 0.5))

	l, err := layout.Build(t)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	var rec canvas.Recorder
	if err := sankey.Draw(&rec, l, sankey.WithTitles("before", "after")); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("bands:", rec.Count(canvas.OpBand))
	fmt.Println("nodes:", rec.Count(canvas.OpRect))
	for _, op := range rec.Texts() {
		fmt.Println("text:", op.Text)
	}
	// Output:
	// bands: 2
	// nodes: 3
	// text: a
	// text: b
	// text: a
	// text: before
	// text: after
}

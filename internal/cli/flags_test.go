package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/pflag"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

func TestOptionFlagsOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := newOptionFlags(fs)
	addLayoutFlags(flags)
	addDrawFlags(flags)
	addOutputFlags(flags)

	if err := fs.Parse([]string{"--sort", "top", "--titles", "a,b", "-f", "svg,png", "--label-values"}); err != nil {
		t.Fatal(err)
	}

	// Values from a config file that no flag touched must survive.
	opts := pipeline.Options{
		Sort:     "none",
		Colormap: "plasma",
		Width:    640,
	}
	flags.apply(&opts)

	want := pipeline.Options{
		Sort:        "top",
		Colormap:    "plasma",
		Width:       640,
		Titles:      []string{"a", "b"},
		Formats:     []string{"svg", "png"},
		LabelValues: true,
	}
	if diff := cmp.Diff(want, opts, cmpopts.IgnoreUnexported(pipeline.Options{})); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionFlagsExplicitZero(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags := newOptionFlags(fs)
	addDrawFlags(flags)

	if err := fs.Parse([]string{"--flow-edge=false"}); err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{FlowEdge: true}
	flags.apply(&opts)
	if opts.FlowEdge {
		t.Error("explicit --flow-edge=false did not override config")
	}
}

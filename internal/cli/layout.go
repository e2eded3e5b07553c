package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/render/sankey/sink"
)

// layoutCommand creates the layout command for exporting node and ribbon geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		curves  bool
	)

	cmd := &cobra.Command{
		Use:   "layout [table]",
		Short: "Compute the diagram layout and write it as JSON",
		Long: `Compute the layout of a table and write it as JSON.

The output lists every node's column, span and colour and every ribbon's end
spans, in data units. With --curves the sampled ribbon edges are included.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
	}

	flags := newOptionFlags(cmd.Flags())
	addLayoutFlags(flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&curves, "curves", false, "include sampled ribbon edges")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, err := c.loadOptions(flags)
		if err != nil {
			return err
		}
		return c.runLayout(cmd.Context(), args[0], opts, output, noCache, curves)
	}
	return cmd
}

// runLayout loads the table, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, curves bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	t, err := runner.Import(ctx, input)
	if err != nil {
		return err
	}
	titles := opts.Titles
	if len(titles) == 0 {
		titles = t.Titles
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	jsonOpts := []sink.JSONOption{sink.WithJSONTitles(titles...)}
	if curves {
		jsonOpts = append(jsonOpts, sink.WithJSONCurves())
	}
	data, err := sink.RenderJSON(l, jsonOpts...)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(pipeline.Stats{
		RowCount:    len(t.Rows),
		StageCount:  l.Stages,
		NodeCount:   l.NodeCount(),
		RibbonCount: len(l.Ribbons),
	}, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

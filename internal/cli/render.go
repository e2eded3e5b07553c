package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [table]",
		Short: "Render a table to SVG, PNG, PDF or layout JSON",
		Long: `Render a table to one or more output formats.

The table is a CSV, TSV or JSON file holding one (label, weight) column pair
per stage. An optional header row supplies the stage titles.

Options are read from the config file first (--config, or sankeyflow.toml,
.yaml or .json in the working directory); flags override it. One file is
written per format as <base>.<format>.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
	}

	flags := newOptionFlags(cmd.Flags())
	addLayoutFlags(flags)
	addDrawFlags(flags)
	addOutputFlags(flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input path without extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts, err := c.loadOptions(flags)
		if err != nil {
			return err
		}
		return c.runRender(cmd.Context(), args[0], opts, output, noCache)
	}
	return cmd
}

// runRender imports the table, runs the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	prog := newProgress(loggerFromContext(ctx))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	t, err := runner.Import(ctx, input)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()

	result, err := runner.Execute(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(basePath(output, input), opts.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d stage(s)", result.Stats.StageCount)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	prog.done(fmt.Sprintf("Rendered %s", input))
	return nil
}

// writeArtifacts writes artifacts[format] to base.format in the order of
// formats and returns the written paths.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, errors.New(errors.ErrCodeInternal, "no %s output produced", format)
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/internal/cli"
	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Exit codes follow sysexits(3) where one applies.
const (
	exitFailure     = 1
	exitDataErr     = 65  // EX_DATAERR: the table cannot be laid out
	exitUsage       = 64  // EX_USAGE: bad option or format
	exitInterrupted = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitInterrupted {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Apply the log level before any subcommand runs
	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.IsDataError(err):
		return exitDataErr
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidOption, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidColor:
		return exitUsage
	}
	return exitFailure
}

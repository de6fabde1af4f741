package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartpack/internal/cli"
	"github.com/matzehuels/chartpack/pkg/errors"
)

// Exit statuses. 130 follows the shell convention for SIGINT.
const (
	exitError    = 1
	exitUsage    = 2
	exitCanceled = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		code := exitCode(err)
		if code != exitCanceled {
			fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
		}
		os.Exit(code)
	}
}

func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return exitCanceled
	case errors.Is(err, errors.ErrCodeInvalidInput), errors.Is(err, errors.ErrCodeInvalidVisual):
		return exitUsage
	}
	return exitError
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline, cache and geocoder events")

	// The level is set before the config loads so that loading is logged.
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig != nil {
			return loadConfig(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

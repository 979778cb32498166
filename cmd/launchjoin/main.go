// Command launchjoin prints a greeting from each of two concurrent units and
// then a completion notice once both have finished.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ridge/launchjoin"
)

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run executes the command and maps the outcome to a process exit code: 0 on
// success, 1 with the error on stderr otherwise. It is separate from main so
// tests can capture both streams and the code.
func run(stdout, stderr io.Writer, args []string) int {
	if err := execute(stdout, stderr, args); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// execute builds and executes the root command
func execute(stdout, stderr io.Writer, args []string) error {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:           "launchjoin",
		Short:         "Launch two printing units and wait for both",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(logLevel, logFormat, stderr)
			if err != nil {
				return err
			}
			ctx := launchjoin.WithLogger(cmd.Context(), logger)
			return launchjoin.DefaultLauncher().Run(ctx, launchjoin.NewPrinter(stdout))
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	return cmd.ExecuteContext(context.Background())
}

// newLogger creates a logger writing to w. Logs never go to stdout, which
// carries only the printed messages.
func newLogger(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, errors.Errorf("unknown log level %q", levelStr)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch formatStr {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.Errorf("unknown log format %q", formatStr)
	}
}

// Command screenwall opens the dashboard windows of a target application
// and places each one on its configured monitor.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/screenwall/internal/config"
	"github.com/1broseidon/screenwall/internal/launcher"
	"github.com/1broseidon/screenwall/internal/placement"
	"github.com/1broseidon/screenwall/internal/waiter"
	"github.com/1broseidon/screenwall/internal/wall"
	"github.com/hashicorp/go-multierror"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit status:
// 0 on success, 1 on a fatal error, 2 on a usage error.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return newApp(stdout, stderr).execute(ctx, args)
}

func (a *app) execute(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var uerr *usageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(a.stderr, "Error: %v\n", uerr.err)
		fmt.Fprintf(a.stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		return 2
	}
	report(a.log(), a.stderr, err)
	return 1
}

// usageError marks a bad command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// report logs a fatal error with the context of its kind.
func report(logger *slog.Logger, stderr io.Writer, err error) {
	var (
		timeout   *waiter.TimeoutError
		launch    *launcher.Error
		count     *placement.CountMismatchError
		unmatched *placement.UnmatchedWindowError
		index     *placement.MonitorIndexError
		invalid   *config.ValidationError
		multi     *multierror.Error
		phase     *wall.PhaseError
	)

	attrs := []any{"error", err}
	if errors.As(err, &phase) {
		attrs = append(attrs, "phase", string(phase.Phase))
	}

	switch {
	case errors.As(err, &timeout):
		logger.Error("expected windows did not open in time",
			append(attrs, "missing", timeout.Missing, "checks", timeout.Checks, "elapsed", timeout.Elapsed)...)
	case errors.As(err, &launch):
		logger.Error("launcher failed",
			append(attrs, "command", launch.Command, "exit_code", launch.ExitCode)...)
	case errors.As(err, &count):
		logger.Error("more windows than monitors",
			append(attrs, "windows", count.Windows, "monitors", count.Monitors)...)
	case errors.As(err, &unmatched):
		logger.Error("window matched no placement rule",
			append(attrs, "title", unmatched.Title)...)
	case errors.As(err, &index):
		logger.Error("configured monitor does not exist",
			append(attrs, "monitor", index.Index, "available", index.Available, "title", index.Title)...)
	case errors.As(err, &invalid), errors.As(err, &multi):
		// Validation output is meant for people; keep its line layout.
		fmt.Fprintln(stderr, err)
	default:
		logger.Error("screenwall failed", attrs...)
	}
}

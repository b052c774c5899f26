package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/tnadl/errs"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	reportError(stderr, err)
	return exitCode(err)
}

// usageError marks bad flags or arguments.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ue), errors.Is(err, errs.ErrMalformedInput):
		return exitUsage
	}
	return exitError
}

func reportError(w io.Writer, err error) {
	var ue usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintf(w, "Error: %v\nRun 'tnadl --help' for usage.\n", err)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted; any partial file was kept and can be resumed.")
	default:
		fmt.Fprintf(w, "Error (%s): %v\n", errs.Kind(err), err)
	}
}

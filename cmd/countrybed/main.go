// Command countrybed looks up country reference data from a local cache
// of the REST Countries dataset, refreshing it when it goes stale.
//
// Usage:
//
//	countrybed sync --force --with-flags
//	countrybed name france
//	countrybed capital paris
//	countrybed region Europe
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		newTerminalReporter(os.Stdout, os.Stderr).Error(err.Error())
		os.Exit(1)
	}
}

// run is main without the process exit, for tests.
func run(out, errOut io.Writer, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

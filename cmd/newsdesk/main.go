package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/newsdesk/internal/cmd"
	"github.com/felixgeelhaar/newsdesk/internal/exitcode"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/internal/ux"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		// Check if error was due to context cancellation (e.g., Ctrl+C)
		if errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
			exitcode.Exit(exitcode.Interrupted)
		}

		code := exitcode.DetermineExitCode(err)
		log.DefaultLogger().WithError(err).Debug("command failed",
			"exit_code", code,
			"exit_reason", exitcode.GetExitCodeDescription(code))
		fmt.Fprintf(os.Stderr, "Error: %v\n", ux.EnhanceError(err))
		exitcode.ExitWithError(err)
	}
	exitcode.Exit(exitcode.Success)
}

// Package main provides the entry point for the tlf directory lookup CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/jonathan/tlf/internal/fetch"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command tree and maps the result to an exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", describeError(err))
		return 1
	}
	return 0
}

func describeError(err error) string {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) && fetchErr.Timeout() {
		return err.Error() + " (request timed out; raise --timeout)"
	}
	return err.Error()
}

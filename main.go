// Command diranalyzer reports disk usage and duplicate files of a directory tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/diranalyzer/internal/cli"
)

// Global variable for CI stamping.
var version = "unknown - unofficial & generated by unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.New(version).Execute(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

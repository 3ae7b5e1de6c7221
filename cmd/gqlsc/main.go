// Command gqlsc compiles annotated GraphQL SDL into a Go package.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/gqlsc"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// Compile errors were already rendered as diagnostics.
		if !gqlsc.IsCompileError(err) {
			fmt.Fprintln(os.Stderr, "gqlsc:", err)
		}
		os.Exit(1)
	}
}

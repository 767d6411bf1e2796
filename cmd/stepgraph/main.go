// Command stepgraph renders, lints and traces declarative workflow
// definitions.
//
//	stepgraph diagram orders.yaml --live
//	stepgraph validate orders.yaml
//	stepgraph runs --db runs.db
//	stepgraph trace 7f9c... --db runs.db --file orders.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

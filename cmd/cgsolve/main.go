// SPDX-License-Identifier: MIT

// Command cgsolve solves sparse symmetric positive definite systems with the
// distributed conjugate gradient engine, either on in-process ranks or as
// one rank of a websocket group. It also generates test systems and prints
// partitions and configurations.
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
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cgsolve:", err)
		os.Exit(1)
	}
}

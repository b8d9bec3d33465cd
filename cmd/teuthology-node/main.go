// Package main is the entry point for the teuthology-node CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/minhlongdo/teuthology/cmd/teuthology-node/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.Root().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

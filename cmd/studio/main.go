package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(nil).RunContext(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		stop()
		os.Exit(1)
	}
}

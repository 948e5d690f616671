package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"llmbench/internal/cli"
)

func main() {
	// Ctrl+C / SIGTERM cancel the in-flight stream or stop the mock server.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	code, shown := cli.ExitCode(err)
	if !shown {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	os.Exit(code)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"

	"github.com/doeshing/margit/internal/infrastructure/cli"
)

func main() {
	// A missing .env is the common case.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Execute(ctx, cli.Options{Verbose: isVerbose()}, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrMissingMessage) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("MARGIT_DEBUG"), "1") || strings.EqualFold(os.Getenv("MARGIT_DEBUG"), "true")
}

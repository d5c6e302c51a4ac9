package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pivolan/carbon_analyzer/dataset"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var le *dataset.LoadError
		if errors.As(err, &le) {
			slog.Error("cannot load dataset", "source", le.Source, "error", le.Err)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

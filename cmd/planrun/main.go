package main

import (
	"fmt"
	"os"

	"github.com/lucasvautier/planrun/internal/stage"
)

func main() {
	registry := stage.NewRegistry()
	if err := registerStages(registry); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register stages: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(registry).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

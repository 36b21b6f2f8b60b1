// Package main is the entry point for the tourney CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	v := fmt.Sprintf("%s (commit: %s)", version, commit)
	if err := run(context.Background(), v, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// Package main provides the Fathom CLI entrypoint.
package main

import (
	"os"

	"github.com/fathomdata/fathom/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the ifacegen CLI entry point.
package main

import (
	"os"

	"github.com/datapour/ifacegen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

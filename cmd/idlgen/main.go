// Package main provides the idlgen CLI.
package main

import (
	"os"

	"github.com/feerouter/idlgen/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

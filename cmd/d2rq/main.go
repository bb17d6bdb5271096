// Package main provides the d2rq command.
package main

import (
	"os"

	"github.com/inovexcorp/d2rq/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

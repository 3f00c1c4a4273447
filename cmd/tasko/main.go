package main

import (
	"os"

	"github.com/nhle/tasko/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/manav03panchal/undoctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/bnema/copilot-usage/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/msto63/taxon/cmd/taxon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

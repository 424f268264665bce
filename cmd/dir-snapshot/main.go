package main

import (
	"os"

	"github.com/bethropolis/dir-snapshot/internal/cmd"
)

func main() {
	if err := cmd.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

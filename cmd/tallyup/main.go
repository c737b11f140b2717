package main

import (
	"os"

	"github.com/tallyup-dev/tallyup/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

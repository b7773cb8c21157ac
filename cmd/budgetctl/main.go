package main

import (
	"os"

	"github.com/bizplan/budget-service/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

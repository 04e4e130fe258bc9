package main

import (
	"os"

	"github.com/inamate/rectboard/cmd/server/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

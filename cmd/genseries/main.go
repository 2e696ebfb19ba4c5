package main

import (
	"os"

	"futurescli/cmd/genseries/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

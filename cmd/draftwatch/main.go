package main

import (
	"fmt"
	"os"

	"github.com/Incarcer/FFA/cmd/draftwatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/cwbudde/myscript/cmd/myscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

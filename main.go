package main

import (
	"os"

	"github.com/halloki/llamaup/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

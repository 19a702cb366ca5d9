package main

import (
	"os"

	"github.com/hirecheck/hirecheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

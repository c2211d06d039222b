package main

import (
	"os"

	"github.com/solatis/hookify/cmd/hookify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

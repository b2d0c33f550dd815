package main

import (
	"os"

	"github.com/munjed-ab/djcraft/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

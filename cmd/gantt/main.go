package main

import (
	"os"

	"github.com/theirongolddev/gantt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/romaxnova/dvf-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

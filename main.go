package main

import (
	"os"

	"github.com/iburimskiy/knowledge-network/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/diskfs/go-blockfs/cmd/blockfs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

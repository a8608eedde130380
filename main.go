package main

import (
	"os"

	"github.com/vimmasterbot/vimmaster/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

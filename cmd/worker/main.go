package main

import (
	"os"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/cmd/worker/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

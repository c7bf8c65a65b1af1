package main

import (
	"fmt"
	"os"

	runcmder "github.com/Gorgooo61/AI-character/cmd/character/run"
)

func main() {
	cmd := runcmder.NewServeCmd()

	cmd.Use = "characterd"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .character/ config directory")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing root command: %v\n", err)
		os.Exit(1)
	}
}

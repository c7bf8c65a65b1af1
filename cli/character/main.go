package main

import (
	"os"

	charactercmder "github.com/Gorgooo61/AI-character/cmd/character"
)

func main() {
	cmd := charactercmder.NewCharacterCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

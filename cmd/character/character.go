// Package charactercmder
package charactercmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/Gorgooo61/AI-character/cmd/character/config"
	contextcmder "github.com/Gorgooo61/AI-character/cmd/character/context"
	hotkeycmder "github.com/Gorgooo61/AI-character/cmd/character/hotkey"
	initcmder "github.com/Gorgooo61/AI-character/cmd/character/init"
	lorecmder "github.com/Gorgooo61/AI-character/cmd/character/lore"
	memorycmder "github.com/Gorgooo61/AI-character/cmd/character/memory"
	runcmder "github.com/Gorgooo61/AI-character/cmd/character/run"
	saycmder "github.com/Gorgooo61/AI-character/cmd/character/say"
	statuscmder "github.com/Gorgooo61/AI-character/cmd/character/status"
	turnscmder "github.com/Gorgooo61/AI-character/cmd/character/turns"
	versioncmder "github.com/Gorgooo61/AI-character/cmd/character/version"
)

const characterLongDesc string = `Character is a voice-driven AI character with memory.

It listens, thinks and answers out loud, remembers what you tell it, and
drives an avatar's expressions while it talks.

Get started using:
  character init       Write a starter .character/ directory
  character run        Talk to the character from this terminal
  character serve      Run headless, taking input over the HTTP API

Talk to a running character using:
  character say        Send it something to answer
  character status     See what it is doing`

const characterShortDesc string = "Character - AI character agent"

func NewCharacterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "character",
		Short:        characterShortDesc,
		Long:         characterLongDesc,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .character/ config directory")

	cmd.AddGroup(
		&cobra.Group{ID: "agent", Title: "Running the character:"},
		&cobra.Group{ID: "client", Title: "Talking to a running character:"},
		&cobra.Group{ID: "memory", Title: "Memory and configuration:"},
	)

	addToGroup(cmd, "agent",
		initcmder.NewInitCmd(),
		runcmder.NewRunCmd(),
		runcmder.NewServeCmd(),
	)
	addToGroup(cmd, "client",
		saycmder.NewSayCmd(),
		statuscmder.NewStatusCmd(),
		hotkeycmder.NewHotkeyCmd(),
		hotkeycmder.NewSwitchCmd(),
	)
	addToGroup(cmd, "memory",
		memorycmder.NewMemoryCmd(),
		lorecmder.NewLoreCmd(),
		contextcmder.NewContextCmd(),
		turnscmder.NewTurnsCmd(),
		configcmder.NewConfigCmd(),
	)
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

func addToGroup(root *cobra.Command, group string, cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.GroupID = group
		root.AddCommand(c)
	}
}

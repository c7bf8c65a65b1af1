// Package initcmder provides the init command for initializing a local
// .character directory with a config file and starter lore.
package initcmder

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/config"
	"github.com/Gorgooo61/AI-character/pkg/dotdir"
)

const dirName = ".character"

// sampleLore seeds lore.json so lore retrieval has something to match.
var sampleLore = []string{
	"The character is a virtual streamer who chats with viewers live.",
	"The character loves tea and keeps a small cactus on the desk.",
	"The character's favourite game is chess but it admits to losing often.",
}

const initLongDesc string = `Initialize a new .character/ directory in the current working directory.

Creates a local .character/ directory that takes precedence over the default
~/.character/ directory for configuration, lore, memory and the turn archive.

A config.toml is written from the chosen preset and a starter lore.json is
added when none exists. Existing files are kept unless --force is given.

Presets:
  ollama      Local generation and embeddings through Ollama (default)
  anthropic   Claude for generation and emotion, Ollama for embeddings

Examples:
  character init
  character init --preset anthropic
  character init --config-dir ./mika --force`

const initShortDesc string = "Initialize a local .character/ directory"

type initCommander struct {
	preset    string
	force     bool
	configDir string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run()
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Config preset ("+strings.Join(config.ValidPresetNames(), ", ")+")")
	cmd.Flags().BoolVar(&cmder.force, "force", false, "Overwrite an existing config.toml and lore.json")

	return cmd
}

func (c *initCommander) run() error {
	preset := c.preset
	if preset == "" {
		preset = "ollama"
	}
	cfg, err := config.PresetConfig(preset)
	if err != nil {
		return err
	}

	dir := c.configDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .character directory: %w", err)
	}
	fmt.Printf("\n  %s %s\n\n", cliui.KeyStyle.Render("Character dir:"), cliui.DimStyle.Render(dir))

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	wrote, err := c.writeIfMissing(cfger.GetTarget(), func() error {
		return cfger.SaveConfig(cfg)
	})
	if err != nil {
		return err
	}
	report("config.toml", wrote, "preset "+preset)

	lorePath := filepath.Join(dir, dotdir.LoreFile)
	wrote, err = c.writeIfMissing(lorePath, func() error {
		data, err := json.MarshalIndent(sampleLore, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding lore: %w", err)
		}
		return os.WriteFile(lorePath, append(data, '\n'), 0o644)
	})
	if err != nil {
		return err
	}
	report(dotdir.LoreFile, wrote, fmt.Sprintf("%d entries", len(sampleLore)))

	fmt.Println()
	return nil
}

// writeIfMissing calls write unless path exists and --force is off. It
// reports whether write ran.
func (c *initCommander) writeIfMissing(path string, write func() error) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil && !c.force:
		return false, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return false, fmt.Errorf("checking %s: %w", path, err)
	}
	if err := write(); err != nil {
		return false, err
	}
	return true, nil
}

func report(name string, wrote bool, detail string) {
	if !wrote {
		fmt.Printf("  %s %s %s\n", cliui.DimStyle.Render("●"), name, cliui.DimStyle.Render("(kept existing)"))
		return
	}
	fmt.Printf("  %s %s %s\n", cliui.SuccessMark, name, cliui.DimStyle.Render("("+detail+")"))
}

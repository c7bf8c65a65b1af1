// Package contextcmder provides the context command, which shows the memory
// context the character would hand to its generator for a line of input.
package contextcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/cmd/character/wiring"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/config"
)

const contextLongDesc string = `Show the memory context for a line of input.

Builds the labelled context exactly as the character does before answering:
the user line, matching lore, a recent turn and long-term facts. Recent turns
only exist inside a running character, so that section is empty here.

Long-term facts are skipped with a warning when the vector store or embedder
cannot be reached. Use --raw to print the plain text the model receives.

Examples:
  character context "do you like tea?"
  character context "where do you live" --raw
  character context "what's my name" --no-facts`

const contextShortDesc string = "Show the memory context for a line of input"

type contextCommander struct {
	raw     bool
	noFacts bool

	lorePath       string
	vectorProvider string
	embedModel     string
}

func NewContextCmd() *cobra.Command {
	cmder := &contextCommander{}

	cmd := &cobra.Command{
		Use:   "context <input>",
		Short: contextShortDesc,
		Long:  contextLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the plain context instead of rendered markdown")
	cmd.Flags().BoolVar(&cmder.noFacts, "no-facts", false, "Skip long-term memory")
	config.AddStringFlag(cmd, config.Flags, config.FlagLorePath, &cmder.lorePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)

	return cmd
}

func (c *contextCommander) run(cmd *cobra.Command, input string) error {
	cfg, configDir, err := wiring.LoadConfig(cmd,
		config.FlagLorePath,
		config.FlagVectorStoreProv,
		config.FlagEmbeddingModel,
	)
	if err != nil {
		return err
	}
	log := wiring.CommandLogger(cmd)

	opts := wiring.MemoryOpts{
		ConfigDir: configDir,
		SkipFacts: c.noFacts,
		Logger:    log,
	}
	mem, err := wiring.NewMemory(cmd.Context(), cfg, opts)
	if err != nil && !c.noFacts {
		log.Warn("long-term memory unavailable, continuing without facts", "error", err)
		opts.SkipFacts = true
		mem, err = wiring.NewMemory(cmd.Context(), cfg, opts)
	}
	if err != nil {
		return err
	}
	defer mem.Close()

	built := mem.Orchestrator.BuildContext(cmd.Context(), input, wiring.Thresholds(cfg))

	out := cmd.OutOrStdout()
	if c.raw {
		fmt.Fprintln(out, built)
		return nil
	}

	rendered, err := cliui.RenderMarkdown(Markdown(input, built))
	if err != nil {
		log.Debug("markdown rendering failed, printing plain", "error", err)
	}
	fmt.Fprint(out, rendered)
	return nil
}

// Markdown lays out a built context as a small markdown document with one
// section per tag.
func Markdown(input, built string) string {
	var b strings.Builder
	b.WriteString("## Context\n\n")
	b.WriteString("> " + strings.TrimSpace(input) + "\n\n")
	b.WriteString("```text\n")
	b.WriteString(built)
	b.WriteString("\n```\n")
	return b.String()
}

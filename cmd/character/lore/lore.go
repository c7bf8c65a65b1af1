// Package lorecmder provides the lore command for browsing and searching the
// character's static knowledge base.
package lorecmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/cmd/character/wiring"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/config"
	"github.com/Gorgooo61/AI-character/pkg/memory/lore"
)

const loreLongDesc string = `Browse and search the character's lore.

Lore is a JSON array of strings, read from memory.lore_path or lore.json in
the .character/ directory. While talking the character matches lore against
what was said with a fuzzy partial match.

Examples:
  character lore list
  character lore search "where do you live"
  character lore search "tea" --threshold 60 --top 3`

const loreShortDesc string = "Browse and search the character's lore"

func NewLoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lore",
		Short: loreShortDesc,
		Long:  loreLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSearchCmd())

	return cmd
}

func load(cmd *cobra.Command) (*lore.Store, *config.Config, error) {
	cfg, configDir, err := wiring.LoadConfig(cmd, config.FlagLorePath)
	if err != nil {
		return nil, nil, err
	}
	mem, err := wiring.NewMemory(cmd.Context(), cfg, wiring.MemoryOpts{
		ConfigDir: configDir,
		SkipFacts: true,
		Logger:    wiring.CommandLogger(cmd),
	})
	if err != nil {
		return nil, nil, err
	}
	return mem.Lore, cfg, nil
}

func newListCmd() *cobra.Command {
	var lorePath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every lore entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, err := load(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if store.Len() == 0 {
				fmt.Fprintln(out, "No lore entries.")
				return nil
			}
			for i, entry := range store.Entries() {
				fmt.Fprintf(out, "  %s %s\n",
					cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
					cliui.ValueStyle.Render(entry),
				)
			}
			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagLorePath, &lorePath)
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		lorePath  string
		threshold float64
		topK      int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search lore with the character's fuzzy matcher",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := load(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Memory.LoreThreshold
			}
			if !cmd.Flags().Changed("top") {
				topK = cfg.Memory.LoreTopK
			}

			results := store.Search(strings.Join(args, " "), threshold, topK)
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No lore matched.")
				return nil
			}
			for _, entry := range results {
				fmt.Fprintf(out, "  %s %s\n", cliui.TagStyle.Render("[LORE]"), cliui.ValueStyle.Render(entry))
			}
			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagLorePath, &lorePath)
	cmd.Flags().Float64Var(&threshold, "threshold", lore.DefaultThreshold, "Minimum partial-match score (0-100)")
	cmd.Flags().IntVarP(&topK, "top", "k", lore.DefaultTopK, "Maximum entries to return")
	return cmd
}

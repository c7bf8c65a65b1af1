package memorycmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/cmd/character/wiring"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
)

const searchLongDesc string = `Search long-term memory.

Runs the same two-tier search the character uses while talking: facts above
memory.fact_primary are returned first, and only when none qualify is the
single best match above memory.fact_fallback returned.

Examples:
  character memory search "what is my name"
  character memory search "pets" --vector-store-provider chromem`

const searchShortDesc string = "Search long-term memory"

func newSearchCmd() *cobra.Command {
	// Flag targets are only read back through viper.
	flags := &addCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, configDir, err := wiring.LoadConfig(cmd, memoryFlags...)
			if err != nil {
				return err
			}

			mem, err := wiring.NewMemory(cmd.Context(), cfg, wiring.MemoryOpts{
				ConfigDir: configDir,
				Logger:    wiring.CommandLogger(cmd),
			})
			if err != nil {
				return err
			}
			defer mem.Close()

			query := strings.Join(args, " ")
			results, err := mem.Facts.SearchWithThresholds(cmd.Context(), query, wiring.Thresholds(cfg).Long)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No facts found.")
				return nil
			}
			for i, fact := range results {
				fmt.Fprintf(out, "  %s %s\n",
					cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
					cliui.ValueStyle.Render(fact),
				)
			}
			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}

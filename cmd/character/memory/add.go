package memorycmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/cmd/character/wiring"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/config"
)

const addLongDesc string = `Add a fact to long-term memory.

The fact is embedded and upserted by content hash, so adding the same text
twice keeps a single record.

Examples:
  character memory add "The viewer's name is Sam"
  character memory add "Sam has a dog called Biscuit" --embedding-model nomic-embed-text`

const addShortDesc string = "Add a fact to long-term memory"

type addCommander struct {
	vectorProvider  string
	vectorTarget    string
	embedProvider   string
	embedTarget     string
	embedModel      string
	embedDimensions uint
}

func newAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:   "add <fact>",
		Short: addShortDesc,
		Long:  addLongDesc,
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

			text := strings.Join(args, " ")
			var hash string
			err = cliui.Step(cmd.ErrOrStderr(), "Embedding fact", func() error {
				var err error
				hash, err = mem.Facts.AddFact(cmd.Context(), text)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "  %s Remembered %s %s\n",
				cliui.SuccessMark,
				cliui.ValueStyle.Render(strings.TrimSpace(text)),
				cliui.DimStyle.Render(hash[:12]),
			)
			return nil
		},
	}

	cmder.addFlags(cmd)
	return cmd
}

func (c *addCommander) addFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreProv, &c.vectorProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorStoreTgt, &c.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &c.embedProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &c.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &c.embedModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &c.embedDimensions)
}

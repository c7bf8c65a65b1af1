// Package memorycmder provides the memory command for adding to and
// searching the character's long-term facts and viewing recent turns.
package memorycmder

import (
	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/pkg/config"
)

const memoryLongDesc string = `Inspect and edit the character's memory.

Long-term facts live in the configured vector store and are searched by
embedding similarity. Recent turns live in the running character's short-term
buffer and are read through its API.

Examples:
  character memory add "The viewer's name is Sam"
  character memory search "what is my name"
  character memory recent`

const memoryShortDesc string = "Inspect and edit the character's memory"

func NewMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: memoryShortDesc,
		Long:  memoryLongDesc,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newRecentCmd())

	return cmd
}

// memoryFlags are the registry flags that shape the long-term store.
var memoryFlags = []string{
	config.FlagVectorStoreProv,
	config.FlagVectorStoreTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
}

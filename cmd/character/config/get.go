package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/pkg/cliui"
)

const getLongDesc string = `Get a configuration value.

Prints the value stored for key in config.toml, or the built-in default when
the file does not set it.

Examples:
  character config get generation.model
  character config get api.listen`

const getShortDesc string = "Get a configuration value"

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "get <key>",
		Short:             getShortDesc,
		Long:              getLongDesc,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if err := checkKey(key); err != nil {
				return err
			}

			cfger, err := openConfig(cmd)
			if err != nil {
				return err
			}
			value, err := cfger.GetConfigValue(key)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n\n", cliui.KeyValue(key, value))
			return nil
		},
	}

	return cmd
}

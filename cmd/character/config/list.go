package configcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/config"
)

const listLongDesc string = `List all configuration values.

Displays every configuration key with its effective value from config.toml
or the built-in defaults, grouped by TOML section.

Examples:
  character config list`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfger, err := openConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			section := ""
			for _, key := range config.ValidConfigKeys() {
				value, err := cfger.GetConfigValue(key)
				if err != nil {
					return err
				}
				if s := sectionOf(key); s != section {
					if section != "" {
						fmt.Fprintln(out)
					}
					section = s
					fmt.Fprintf(out, "  %s\n", cliui.DimStyle.Render("["+section+"]"))
				}
				fmt.Fprintf(out, "  %s\n", cliui.KeyValue(key, value))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	return cmd
}

func sectionOf(key string) string {
	for i := range len(key) {
		if key[i] == '.' {
			return key[:i]
		}
	}
	return key
}

// Package configcmder provides the config command for managing persistent
// character configuration stored in the .character/ directory.
package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/config"
)

const configLongDesc string = `Manage persistent character configuration.

Configuration is stored as config.toml in the .character/ directory and
provides default values for command flags. CHARACTER_* environment variables
and CLI flags take precedence over config file values.

Keys use dotted notation matching the TOML section structure, for example:
  agent.name, agent.autonomous, capture.mode,
  generation.provider, generation.model,
  memory.lore_path, memory.short_ttl,
  vector_store.provider, embedding.model,
  storage.provider, api.listen

Use subcommands to get, set, or list configuration values:
  character config set <key> <value>    Set a configuration value
  character config get <key>            Get a configuration value
  character config list                 List all configuration values

Examples:
  character config set agent.name Mika
  character config set generation.model llama3.2
  character config get memory.short_ttl
  character config list`

const configShortDesc string = "Manage persistent character configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if config.IsValidConfigKey(key) {
		return nil
	}
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

func openConfig(cmd *cobra.Command) (*config.Configer, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n  %s %s\n\n",
		cliui.KeyStyle.Render("Config file:"),
		cliui.DimStyle.Render(cfger.GetTarget()),
	)
	return cfger, nil
}

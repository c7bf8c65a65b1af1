package memorycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/cmd/character/client"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/utils"
)

const recentLongDesc string = `Show the running character's short-term memory.

Lists the turns still inside the short-term window, oldest first. Requires a
running character with the API enabled.

Examples:
  character memory recent
  character memory recent --api-target http://localhost:9000`

const recentShortDesc string = "Show recent turns from a running character"

func newRecentCmd() *cobra.Command {
	var apiTarget string

	cmd := &cobra.Command{
		Use:   "recent",
		Short: recentShortDesc,
		Long:  recentLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			target, err := client.Target(apiTarget, configDir)
			if err != nil {
				return err
			}
			c, err := client.New(target)
			if err != nil {
				return err
			}

			recent, err := c.Recent(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if recent.Count == 0 {
				fmt.Fprintln(out, "No recent turns.")
				return nil
			}
			for _, t := range recent.Turns {
				fmt.Fprintf(out, "  %s %s\n",
					cliui.TagStyle.Render("user:"),
					cliui.ValueStyle.Render(utils.Truncate(t.UserText, 72)),
				)
				reply := t.AssistantText
				if t.Pending() {
					reply = cliui.DimStyle.Render("(thinking)")
				}
				fmt.Fprintf(out, "  %s %s  %s\n\n",
					cliui.TagStyle.Render("character:"),
					utils.Truncate(reply, 72),
					cliui.DimStyle.Render(t.CreatedAt.Format("15:04:05")),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiTarget, "api-target", "", "Running character API URL (default: the running character, then client.api_target)")
	return cmd
}

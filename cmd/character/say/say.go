// Package saycmder provides the say command, which sends a line of input to
// a running character as if the user had spoken it.
package saycmder

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/cmd/character/client"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
)

const sayLongDesc string = `Send input to a running character.

Posts the text to the character's API. The character must have been started
with API capture ("character serve" or "character run --capture api").

Examples:
  character say "hello, how are you?"
  character say "tell me about your day" --api-target http://localhost:9000`

const sayShortDesc string = "Send input to a running character"

func NewSayCmd() *cobra.Command {
	var apiTarget string

	cmd := &cobra.Command{
		Use:   "say <text>",
		Short: sayShortDesc,
		Long:  sayLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			target, err := client.Target(apiTarget, configDir)
			if err != nil {
				return err
			}
			c, err := client.New(target)
			if err != nil {
				return err
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			err = c.Say(cmd.Context(), text)
			switch {
			case client.IsStatus(err, http.StatusServiceUnavailable):
				return fmt.Errorf("the character at %s does not accept API input; start it with --capture api", target)
			case client.IsStatus(err, http.StatusTooManyRequests):
				return fmt.Errorf("the character is busy, try again: %w", err)
			case err != nil:
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(text))
			return nil
		},
	}

	cmd.Flags().StringVar(&apiTarget, "api-target", "", "Running character API URL (default: the running character, then client.api_target)")
	return cmd
}

// Package statuscmder provides the status command for showing whether a
// character is running and, when it serves the API, its live status fields.
package statuscmder

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/api"
	"github.com/Gorgooo61/AI-character/cmd/character/client"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/session"
	"github.com/Gorgooo61/AI-character/pkg/status"
)

const statusLongDesc string = `Show the running character's status.

Reads the session recorded in the .character/ directory and, when the
character serves the API, prints the live status fields (who is talking,
whether it is generating, the current emotion and the runtime switches).

Examples:
  character status
  character status --api-target http://localhost:9000`

const statusShortDesc string = "Show the running character's status"

func NewStatusCmd() *cobra.Command {
	var apiTarget string

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			out := cmd.OutOrStdout()

			manager, err := session.NewManager(configDir)
			if err != nil {
				return err
			}
			state, err := manager.Load()
			if err != nil {
				return err
			}
			if state == nil && apiTarget == "" {
				fmt.Fprintf(out, "  %s No character is running.\n", cliui.DimStyle.Render("●"))
				return nil
			}
			if state != nil {
				printSession(out, state)
			}

			target := apiTarget
			if target == "" {
				target = state.APIURL
			}
			if target == "" {
				fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("API disabled, live status unavailable."))
				return nil
			}

			c, err := client.New(target)
			if err != nil {
				return err
			}
			st, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			PrintStatus(out, st)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiTarget, "api-target", "", "Character API URL (default: the running character's)")
	return cmd
}

func printSession(out io.Writer, s *session.State) {
	fmt.Fprintf(out, "\n  %s  %s\n", cliui.KeyStyle.Render("Character:"), cliui.ValueStyle.Render(s.Name))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("PID:      "), cliui.ValueStyle.Render(strconv.Itoa(s.PID)))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Capture:  "), cliui.ValueStyle.Render(s.CaptureMode))
	fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Up since: "),
		cliui.ValueStyle.Render(s.StartedAt.Local().Format(time.DateTime)))
	if s.LogPath != "" {
		fmt.Fprintf(out, "  %s  %s\n", cliui.KeyStyle.Render("Log:      "), cliui.DimStyle.Render(s.LogPath))
	}
}

// PrintStatus writes the status fields in bus order.
func PrintStatus(out io.Writer, st *api.StatusResponse) {
	fmt.Fprintln(out)
	for _, f := range status.Fields() {
		v, ok := st.Fields[f]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %s\n", cliui.KeyValue(string(f), fmt.Sprint(v.Value)))
	}
	fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d unconsumed events", st.Pending)))
}

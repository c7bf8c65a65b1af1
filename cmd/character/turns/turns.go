// Package turnscmder provides the turns command for browsing the archive of
// completed conversation turns.
package turnscmder

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/cmd/character/client"
	"github.com/Gorgooo61/AI-character/cmd/character/wiring"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
	"github.com/Gorgooo61/AI-character/pkg/config"
	"github.com/Gorgooo61/AI-character/pkg/storage"
	storageutils "github.com/Gorgooo61/AI-character/pkg/storage/utils"
	"github.com/Gorgooo61/AI-character/pkg/utils"
)

const turnsLongDesc string = `List archived conversation turns, newest first.

Reads the turn archive configured under [storage] directly. With
--api-target the turns are fetched from a running character instead, which
is the only way to read an in-memory archive.

Pass a turn ID to show that single turn.

Examples:
  character turns
  character turns -n 5
  character turns 7f3c2a9e-...
  character turns --api-target http://localhost:9000`

const turnsShortDesc string = "List archived conversation turns"

type turnsCommander struct {
	limit     int
	apiTarget string

	storageProvider string
	sqlitePath      string
	postgresDSN     string
}

var turnsFlags = []string{
	config.FlagStorage,
	config.FlagSQLite,
	config.FlagPostgres,
}

func NewTurnsCmd() *cobra.Command {
	cmder := &turnsCommander{}

	cmd := &cobra.Command{
		Use:   "turns [id]",
		Short: turnsShortDesc,
		Long:  turnsLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			turns, err := cmder.fetch(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(turns) == 0 {
				fmt.Fprintf(out, "  %s\n", cliui.DimStyle.Render("No archived turns."))
				return nil
			}
			for _, t := range turns {
				printTurn(out, t)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", storage.DefaultListLimit, "Maximum number of turns to list")
	cmd.Flags().StringVar(&cmder.apiTarget, "api-target", "", "Read turns from a running character's API instead of the archive")
	config.AddStringFlag(cmd, config.Flags, config.FlagStorage, &cmder.storageProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)

	return cmd
}

func (c *turnsCommander) fetch(cmd *cobra.Command, args []string) ([]*storage.Turn, error) {
	if c.apiTarget != "" {
		return c.fetchAPI(cmd, args)
	}

	cfg, configDir, err := wiring.LoadConfig(cmd, turnsFlags...)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Provider == storageutils.ProviderInMemory {
		return nil, errors.New("the in-memory archive is only readable through a running character: pass --api-target")
	}

	driver, err := wiring.NewStorage(cmd.Context(), cfg, configDir)
	if err != nil {
		return nil, err
	}
	defer driver.Close()

	if len(args) == 1 {
		turn, err := driver.Get(cmd.Context(), args[0])
		if err != nil {
			return nil, err
		}
		return []*storage.Turn{turn}, nil
	}
	return driver.List(cmd.Context(), c.limit)
}

func (c *turnsCommander) fetchAPI(cmd *cobra.Command, args []string) ([]*storage.Turn, error) {
	cl, err := client.New(c.apiTarget)
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		turn, err := cl.Turn(cmd.Context(), args[0])
		if client.IsStatus(err, http.StatusNotFound) {
			return nil, storage.NotFoundError{ID: args[0]}
		}
		if err != nil {
			return nil, err
		}
		return []*storage.Turn{turn}, nil
	}

	resp, err := cl.Turns(cmd.Context(), c.limit)
	if err != nil {
		return nil, err
	}
	return resp.Turns, nil
}

func printTurn(out io.Writer, t *storage.Turn) {
	header := cliui.KeyStyle.Render(t.CompletedAt.Local().Format(time.DateTime))
	if t.Autonomous {
		header += " " + cliui.TagStyle.Render("[autonomous]")
	}
	if t.Emotion != "" {
		header += " " + cliui.TagStyle.Render(t.Emotion)
	}

	fmt.Fprintf(out, "\n  %s %s\n", header, cliui.DimStyle.Render(t.ID))
	if t.UserText != "" {
		fmt.Fprintf(out, "    %s %s\n", cliui.DimStyle.Render("user:"), utils.Truncate(t.UserText, 120))
	}
	fmt.Fprintf(out, "    %s %s\n", cliui.DimStyle.Render("reply:"), cliui.ValueStyle.Render(utils.Truncate(t.AssistantText, 120)))
	fmt.Fprintf(out, "    %s\n", cliui.DimStyle.Render("took "+cliui.FormatDuration(t.CompletedAt.Sub(t.StartedAt))))
}

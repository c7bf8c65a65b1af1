// Package hotkeycmder provides the hotkey and switch commands, which drive a
// running character's avatar and runtime switches through its API.
package hotkeycmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Gorgooo61/AI-character/api"
	"github.com/Gorgooo61/AI-character/cmd/character/client"
	"github.com/Gorgooo61/AI-character/pkg/cliui"
)

const hotkeyLongDesc string = `Trigger an avatar hotkey on a running character.

The hotkey name is passed to the avatar driver as-is (for VTube Studio, the
hotkey's name in the model). Ignored while the avatar switch is off.

Examples:
  character hotkey Smile
  character hotkey "Angry Face"`

const switchLongDesc string = `Turn a running character's runtime switches on or off.

  capture   Whether new input is accepted
  avatar    Whether emotions trigger avatar hotkeys

Examples:
  character switch capture off
  character switch avatar on`

func NewHotkeyCmd() *cobra.Command {
	var apiTarget string

	cmd := &cobra.Command{
		Use:   "hotkey <name>",
		Short: "Trigger an avatar hotkey on a running character",
		Long:  hotkeyLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd, apiTarget)
			if err != nil {
				return err
			}
			if err := c.Hotkey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s Triggered %s\n", cliui.SuccessMark, cliui.ValueStyle.Render(args[0]))
			return nil
		},
	}

	addTargetFlag(cmd, &apiTarget)
	return cmd
}

func NewSwitchCmd() *cobra.Command {
	var apiTarget string

	cmd := &cobra.Command{
		Use:       "switch <capture|avatar> <on|off>",
		Short:     "Turn a running character's switches on or off",
		Long:      switchLongDesc,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"capture", "avatar"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[1])
			if err != nil {
				return err
			}

			var req api.SwitchesRequest
			switch args[0] {
			case "capture":
				req.CaptureEnabled = &on
			case "avatar":
				req.AvatarEnabled = &on
			default:
				return fmt.Errorf("unknown switch %q (available: capture, avatar)", args[0])
			}

			c, err := newClient(cmd, apiTarget)
			if err != nil {
				return err
			}
			if _, err := c.Switches(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s\n", cliui.SuccessMark, cliui.KeyStyle.Render(args[0]), cliui.ValueStyle.Render(args[1]))
			return nil
		},
	}

	addTargetFlag(cmd, &apiTarget)
	return cmd
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid switch value %q: use on or off", s)
	}
	return b, nil
}

func addTargetFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "api-target", "", "Running character API URL (default: the running character, then client.api_target)")
}

func newClient(cmd *cobra.Command, apiTarget string) (*client.Client, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	target, err := client.Target(apiTarget, configDir)
	if err != nil {
		return nil, err
	}
	return client.New(target)
}

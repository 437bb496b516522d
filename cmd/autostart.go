package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAutostartCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage starting the agent at login",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Start the agent at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := app.service.SetAutostart(cmd.Context(), true); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Autostart enabled.")
				return err
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Stop starting the agent at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := app.service.SetAutostart(cmd.Context(), false); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Autostart disabled.")
				return err
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the agent starts at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				enabled, err := app.service.AutostartEnabled(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "autostart: %s\n", formatToggle(enabled))
				return err
			},
		},
	)

	return cmd
}

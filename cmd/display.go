package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

func newDisplayCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "display",
		Short: "Show or change what the indicator displays",
	}

	cmd.AddCommand(newDisplayShowCmd(app), newDisplaySetCmd(app))

	return cmd
}

func newDisplayShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the display preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefs, err := app.service.DisplayPreferences(cmd.Context())
			if err != nil {
				return err
			}
			return writeDisplayPreferences(cmd, app, prefs)
		},
	}
}

func newDisplaySetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <bar|percent> <on|off>",
		Short: "Turn the progress bar or the percentage on or off",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := application.ParsePreferenceKey(args[0])
			if err != nil {
				return err
			}
			value, err := parseToggle(args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.service.SetDisplayPreference(ctx, key, value); err != nil {
				return err
			}
			prefs, err := app.service.DisplayPreferences(ctx)
			if err != nil {
				return err
			}
			return writeDisplayPreferences(cmd, app, prefs)
		},
	}
}

func writeDisplayPreferences(cmd *cobra.Command, app *app, prefs domain.DisplayPreferences) error {
	state := app.service.UsageState(cmd.Context())
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s: %s\n", domain.PrefShowBar, formatToggle(prefs.ShowBar))
	fmt.Fprintf(out, "%s: %s\n", domain.PrefShowPercent, formatToggle(prefs.ShowPercent))
	_, err := fmt.Fprintf(out, "indicator: %q\n", state.Text)
	return err
}

func parseToggle(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "show":
		return true, nil
	case "off", "no", "hide":
		return false, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid value %q: use on or off", raw)
	}
	return value, nil
}

func formatToggle(value bool) string {
	if value {
		return "on"
	}
	return "off"
}

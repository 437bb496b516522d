package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/copilot-usage/internal/adapters/indicator/httpstatus"
	"github.com/bnema/copilot-usage/internal/adapters/indicator/terminal"
	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

var errNotSignedIn = errors.New("not signed in, run `cu auth login` first")

func newUsageCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "usage",
		Aliases: []string{"status"},
		Short:   "Fetch and display Copilot premium request usage",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUsageFetch(cmd, app, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runUsageFetch(cmd *cobra.Command, app *app, asJSON bool) error {
	var state application.UsageState
	fetch := func(ctx context.Context) error {
		var err error
		state, err = app.service.RefreshNow(ctx)
		return err
	}

	var err error
	if asJSON {
		err = fetch(cmd.Context())
	} else {
		err = runTask(cmd.Context(), cmd.ErrOrStderr(), task{
			label: "Fetching Copilot usage...",
			run:   func(ctx context.Context, _ func(string)) error { return fetch(ctx) },
			outcome: func() string {
				return "Updated at " + state.UpdatedAt.Local().Format("15:04:05") + "."
			},
		})
	}
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return errNotSignedIn
		}
		return fmt.Errorf("fetch usage: %w", err)
	}

	return writeUsageOutput(cmd, app, state, asJSON)
}

func writeUsageOutput(cmd *cobra.Command, app *app, state application.UsageState, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(httpstatus.NewUsageResponse(state))
	}

	output, err := app.renderUsage(state, terminal.RenderOptions{Now: app.now()})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
	return err
}

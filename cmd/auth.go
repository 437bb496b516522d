package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the GitHub sign-in",
	}

	cmd.AddCommand(
		newAuthLoginCmd(app),
		newAuthSetCmd(app),
		newAuthLogoutCmd(app),
		newAuthStatusCmd(app),
	)

	return cmd
}

func newAuthLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with the GitHub device flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAuthLogin(cmd, app)
		},
	}
}

func runAuthLogin(cmd *cobra.Command, app *app) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	status, err := app.service.StartDeviceFlow(ctx)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	if status.Session == nil {
		return fmt.Errorf("sign in: %w", domain.ErrMalformedResponse)
	}

	fmt.Fprintf(out, "First copy your one-time code: %s\n", status.Session.UserCode)
	fmt.Fprintf(out, "Then open %s and enter it.\n", status.Session.VerificationURI)

	err = runTask(ctx, cmd.ErrOrStderr(), task{
		label: "Waiting for authorization...",
		run: func(ctx context.Context, report func(string)) error {
			stop := app.service.SubscribeDeviceFlow(func(status application.FlowStatus) {
				if line := flowProgress(status); line != "" {
					report(line)
				}
			})
			defer stop()

			_, err := app.service.WaitDeviceFlow(ctx)
			return err
		},
		outcome: func() string { return "Authorized." },
	})
	if ctx.Err() != nil {
		app.service.CancelDeviceFlow()
		return fmt.Errorf("sign in: %w", domain.ErrFlowCancelled)
	}
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	fmt.Fprintln(out, "Signed in to GitHub.")
	if login, err := app.service.Whoami(ctx); err == nil {
		fmt.Fprintf(out, "Logged in as %s.\n", login)
	}
	return nil
}

// flowProgress describes a live device flow for the status line.
func flowProgress(status application.FlowStatus) string {
	session := status.Session
	if status.State != domain.FlowPolling || session == nil {
		return ""
	}
	if session.Attempts == 0 {
		return fmt.Sprintf("(code %s)", session.UserCode)
	}
	return fmt.Sprintf("(code %s, checked %s, every %s)",
		session.UserCode, english.Plural(session.Attempts, "time", "times"), session.PollWait())
}

func newAuthSetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set [token]",
		Short: "Store an existing GitHub token (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				read, err := readToken(cmd.InOrStdin())
				if err != nil {
					return err
				}
				token = read
			}

			if err := app.service.SaveManualCredential(cmd.Context(), token); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return err
		},
	}
}

func newAuthLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored GitHub token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.SignOut(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		},
	}
}

func newAuthStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a GitHub token is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			signedIn, err := app.service.HasCredential(ctx)
			if err != nil {
				return err
			}
			if !signedIn {
				_, err := fmt.Fprintln(out, "Not signed in. Run `cu auth login`.")
				return err
			}

			login, err := app.service.Whoami(ctx)
			if err != nil {
				_, err = fmt.Fprintf(out, "Signed in (could not look up account: %v).\n", err)
				return err
			}
			_, err = fmt.Fprintf(out, "Signed in as %s.\n", login)
			return err
		},
	}
}

func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", domain.ErrEmptyCredential
	}
	return token, nil
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// skipWireAnnotation marks commands that run without loading configuration.
const skipWireAnnotation = "cu/skip-wire"

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, cleanup := newRootCmd()
	defer cleanup()

	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd returns the command tree and a cleanup function that stops
// whatever the executed command wired.
func newRootCmd() (*cobra.Command, func()) {
	app := &app{}
	var opts wireOptions

	rootCmd := &cobra.Command{
		Use:           "cu",
		Short:         "GitHub Copilot usage (cu): sign in and watch your premium request quota",
		Long:          "cu signs in to GitHub with the device authorization flow, refreshes your Copilot premium request usage every few minutes, and shows it as a compact ▰▱ indicator in the terminal, a status endpoint, or JSON.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipWireAnnotation] != "" {
				return nil
			}
			return app.wire(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/copilot-usage/config.toml)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (debug|info|warn|error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAuthCmd(app),
		newUsageCmd(app),
		newDisplayCmd(app),
		newAutostartCmd(app),
		newWatchCmd(app),
		newAgentCmd(app),
	)

	return rootCmd, app.close
}

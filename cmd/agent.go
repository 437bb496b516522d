package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/copilot-usage/internal/adapters/indicator/httpstatus"
	"github.com/bnema/copilot-usage/internal/application"
)

func newAgentCmd(app *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Refresh usage in the background and serve it on a local HTTP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen == "" {
				listen = app.cfg.ListenAddr
			}
			return runAgent(cmd.Context(), app, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Status endpoint address (default from config, 127.0.0.1:42847)")

	return cmd
}

func runAgent(ctx context.Context, app *app, listen string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := httpstatus.NewServer(app.service, cancel, app.logger)
	defer app.indicator.Attach(server)()

	alerts := application.NewUsageAlerts(app.notifier, app.logger)
	defer app.service.SubscribeUsage(alerts.Observe)()

	if err := app.prefs.Watch(ctx, app.logger, func() { app.service.Rerender(ctx) }); err != nil {
		app.logger.Warn("preferences watcher unavailable", zap.Error(err))
	}

	if err := app.service.Bootstrap(ctx); err != nil {
		return err
	}
	if signedIn, err := app.service.HasCredential(ctx); err == nil && !signedIn {
		app.logger.Warn("not signed in, run `cu auth login` to start refreshing")
	}

	app.logger.Info("agent started",
		zap.String("listen", listen),
		zap.Duration("refresh_interval", app.cfg.RefreshInterval),
	)
	return server.Serve(ctx, listen)
}

package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/copilot-usage/internal/adapters/indicator/terminal"
	"github.com/bnema/copilot-usage/internal/application"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:         "watch",
		Short:       "Show the usage indicator in the terminal and keep it current",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logToFileAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, app)
		},
	}
}

func runWatch(cmd *cobra.Command, app *app) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	program := tea.NewProgram(
		terminal.NewModel(ctx, app.service, app.now),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	sink := terminal.NewSink(program)
	defer app.service.SubscribeUsage(sink.ObserveUsage)()
	defer app.service.SubscribeDeviceFlow(sink.ObserveFlow)()

	alerts := application.NewUsageAlerts(app.notifier, app.logger)
	defer app.service.SubscribeUsage(alerts.Observe)()

	// Sends block until the program runs, so everything that publishes
	// starts from a goroutine.
	go func() {
		defer app.indicator.Attach(sink)()

		if err := app.prefs.Watch(ctx, app.logger, func() { app.service.Rerender(ctx) }); err != nil {
			app.logger.Warn("preferences watcher unavailable", zap.Error(err))
		}
		if err := app.service.Bootstrap(ctx); err != nil {
			app.logger.Error("bootstrap", zap.Error(err))
		}
		<-ctx.Done()
	}()

	_, err := program.Run()
	app.service.CancelDeviceFlow()
	return err
}

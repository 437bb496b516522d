package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

func TestTaskModelShowsReportedStatus(t *testing.T) {
	m := newTaskModel(task{label: "Waiting for authorization..."}, nil)
	assert.Contains(t, m.View(), "Waiting for authorization...")

	next, _ := m.Update(taskProgressMsg("(code WDJB-MJHT)"))
	view := next.View()
	assert.Contains(t, view, "Waiting for authorization...")
	assert.Contains(t, view, "(code WDJB-MJHT)")
}

func TestTaskModelPrintsOutcomeOnlyOnSuccess(t *testing.T) {
	m := newTaskModel(task{label: "Fetching...", outcome: func() string { return "Authorized." }}, nil)

	done, _ := m.Update(taskDoneMsg{})
	assert.Contains(t, done.View(), "✓ Authorized.")

	failed, _ := m.Update(taskDoneMsg{err: errors.New("denied")})
	assert.Empty(t, failed.View())
}

func TestRunTaskReturnsWorkError(t *testing.T) {
	output := &bytes.Buffer{}
	err := runTask(context.Background(), output, task{
		label: "Working...",
		run: func(_ context.Context, report func(string)) error {
			report("halfway")
			return assert.AnError
		},
	})
	require.ErrorIs(t, err, assert.AnError)
}

func TestRunTaskPrintsOutcome(t *testing.T) {
	output := &bytes.Buffer{}
	err := runTask(context.Background(), output, task{
		label:   "Working...",
		run:     func(context.Context, func(string)) error { return nil },
		outcome: func() string { return "All done." },
	})
	require.NoError(t, err)
	assert.Contains(t, output.String(), "✓ All done.")
}

func TestFlowProgressDescribesPolling(t *testing.T) {
	session := &domain.DeviceAuthSession{UserCode: "WDJB-MJHT", Interval: 5 * time.Second}

	assert.Empty(t, flowProgress(application.FlowStatus{State: domain.FlowStarting}))
	assert.Equal(t, "(code WDJB-MJHT)", flowProgress(application.FlowStatus{State: domain.FlowPolling, Session: session}))

	session.Attempts = 1
	assert.Equal(t, "(code WDJB-MJHT, checked 1 time, every 5s)",
		flowProgress(application.FlowStatus{State: domain.FlowPolling, Session: session}))

	session.Attempts = 3
	session.Interval = 10 * time.Second
	assert.Equal(t, "(code WDJB-MJHT, checked 3 times, every 10s)",
		flowProgress(application.FlowStatus{State: domain.FlowPolling, Session: session}))
}

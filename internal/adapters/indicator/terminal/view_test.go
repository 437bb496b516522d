package terminal

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/copilot-usage/internal/application"
	"github.com/bnema/copilot-usage/internal/domain"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func snapshotState(used, limit int64) application.UsageState {
	snapshot := &domain.UsageSnapshot{
		PremiumUsed:     used,
		PremiumLimit:    limit,
		StandardUsed:    120,
		StandardLimit:   2000,
		BillingCycleEnd: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		FetchedAt:       testNow.Add(-2 * time.Minute),
	}
	percent := snapshot.PremiumPercent()
	return application.UsageState{
		Snapshot:  snapshot,
		Percent:   percent,
		UpdatedAt: testNow.Add(-2 * time.Minute),
		Text:      domain.IndicatorText(percent, domain.DefaultDisplayPreferences()),
		Menu:      domain.MenuSummary(snapshot),
	}
}

func TestRenderUsageSnapshot(t *testing.T) {
	output, err := Render(snapshotState(255, 300), RenderOptions{Now: testNow})

	require.NoError(t, err)
	assert.Contains(t, output, "GitHub Copilot Usage")
	assert.Contains(t, output, "▰▰▰▰▱ 85%")
	assert.Contains(t, output, "premium:")
	assert.Contains(t, output, "85% (255 / 300, 45 left)")
	assert.Contains(t, output, "completions: 120 / 2,000")
	assert.Contains(t, output, "quota resets 2 weeks from now (01 Nov)")
	assert.Contains(t, output, "updated 2 minutes ago")
	assert.NotContains(t, output, "stale")
}

func TestRenderStaleSnapshotShowsError(t *testing.T) {
	state := snapshotState(30, 300)
	state.Err = &domain.UsageFetchError{Err: errors.New("fetch usage: status 502")}

	output, err := Render(state, RenderOptions{Now: testNow})

	require.NoError(t, err)
	assert.Contains(t, output, "10% (30 / 300, 270 left)")
	assert.Contains(t, output, "[stale]")
	assert.Contains(t, output, "fetch usage: status 502")
}

func TestRenderWithoutSnapshot(t *testing.T) {
	output, err := Render(application.UsageState{}, RenderOptions{Now: testNow})
	require.NoError(t, err)
	assert.Contains(t, output, "No usage data")

	output, err = Render(application.UsageState{Err: errors.New("status 401")}, RenderOptions{Now: testNow})
	require.NoError(t, err)
	assert.Contains(t, output, "Refresh failed: status 401")

	output, err = Render(application.UsageState{Refreshing: true}, RenderOptions{Now: testNow})
	require.NoError(t, err)
	assert.Contains(t, output, "Fetching usage...")
}

func TestRenderDeviceFlowPrompt(t *testing.T) {
	flow := &application.FlowStatus{
		State: domain.FlowPolling,
		Session: &domain.DeviceAuthSession{
			UserCode:        "WDJB-MJHT",
			VerificationURI: "https://github.com/login/device",
		},
	}

	output, err := Render(application.UsageState{}, RenderOptions{Now: testNow, Flow: flow})

	require.NoError(t, err)
	assert.Contains(t, output, "https://github.com/login/device")
	assert.Contains(t, output, "WDJB-MJHT")
	assert.Contains(t, output, "Waiting for authorization...")
}

func TestRenderProgressBarBounds(t *testing.T) {
	s := newStyles()

	assert.Equal(t, "[------------------------]", renderProgressBar(-10, barWidth, s))
	assert.Equal(t, "[============------------]", renderProgressBar(50, barWidth, s))
	assert.Equal(t, "[========================]", renderProgressBar(130, barWidth, s))
	assert.Empty(t, renderProgressBar(50, 0, s))
}

type fakeController struct {
	refreshes int
	prefs     domain.DisplayPreferences
	set       map[string]bool
	autostart bool
	started   int
	cancelled bool
}

func (f *fakeController) RefreshNow(context.Context) (application.UsageState, error) {
	f.refreshes++
	return application.UsageState{}, nil
}

func (f *fakeController) DisplayPreferences(context.Context) (domain.DisplayPreferences, error) {
	return f.prefs, nil
}

func (f *fakeController) SetDisplayPreference(_ context.Context, key string, value bool) error {
	if f.set == nil {
		f.set = map[string]bool{}
	}
	f.set[key] = value
	return nil
}

func (f *fakeController) ToggleAutostart(context.Context) (bool, error) {
	f.autostart = !f.autostart
	return f.autostart, nil
}

func (f *fakeController) StartDeviceFlow(context.Context) (application.FlowStatus, error) {
	f.started++
	return application.FlowStatus{State: domain.FlowAwaitingUserAction}, nil
}

func (f *fakeController) CancelDeviceFlow() bool {
	f.cancelled = true
	return true
}

func press(t *testing.T, m Model, keys string) (Model, tea.Msg) {
	t.Helper()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
	model, ok := next.(Model)
	require.True(t, ok)
	if cmd == nil {
		return model, nil
	}
	return model, cmd()
}

func TestModelKeysDriveController(t *testing.T) {
	controller := &fakeController{prefs: domain.DefaultDisplayPreferences()}
	m := NewModel(context.Background(), controller, func() time.Time { return testNow })

	m, msg := press(t, m, "r")
	assert.Equal(t, actionDone{note: "Usage refreshed."}, msg)
	assert.Equal(t, 1, controller.refreshes)

	m, msg = press(t, m, "b")
	assert.Equal(t, actionDone{note: "showBar set to false."}, msg)
	assert.Equal(t, map[string]bool{domain.PrefShowBar: false}, controller.set)

	m, _ = press(t, m, "p")
	assert.Equal(t, false, controller.set[domain.PrefShowPercent])

	m, msg = press(t, m, "a")
	assert.Equal(t, actionDone{note: "Start at login enabled."}, msg)

	m, _ = press(t, m, "l")
	assert.Equal(t, 1, controller.started)

	_, msg = press(t, m, "q")
	assert.Equal(t, tea.Quit(), msg)
}

func TestModelViewReflectsMessages(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, func() time.Time { return testNow })
	state := snapshotState(150, 300)

	next, _ := m.Update(textMsg(state.Text))
	next, _ = next.Update(menuMsg(state.Menu))
	next, _ = next.Update(stateMsg(state))
	next, _ = next.Update(actionDone{note: "Usage refreshed."})

	view := next.View()
	assert.Contains(t, view, "▰▰▰▱▱ 50%")
	assert.Contains(t, view, "Premium Requests")
	assert.Contains(t, view, "Used: 150 / 300")
	assert.Contains(t, view, "Remaining: 150")
	assert.Contains(t, view, "Usage refreshed.")
	assert.Contains(t, view, "refresh")
}

func TestModelShowActionTogglesDetails(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, func() time.Time { return testNow })
	state := snapshotState(150, 300)

	next, _ := m.Update(textMsg(state.Text))
	next, _ = next.Update(stateMsg(state))
	m = next.(Model)

	m, msg := press(t, m, "s")
	assert.Equal(t, detailsMsg{}, msg)
	next, _ = m.Update(msg)
	view := next.View()
	assert.Contains(t, view, "▰▰▰▱▱ 50%")
	assert.NotContains(t, view, "premium:")

	next, _ = next.Update(detailsMsg{})
	assert.Contains(t, next.View(), "premium:")
}

func TestModelCollapsedViewKeepsLiveSignInPrompt(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, func() time.Time { return testNow })

	next, _ := m.Update(detailsMsg{})
	next, _ = next.Update(flowMsg(application.FlowStatus{
		State:   domain.FlowPolling,
		Session: &domain.DeviceAuthSession{UserCode: "WDJB-MJHT", VerificationURI: "https://github.com/login/device"},
	}))
	assert.Contains(t, next.View(), "WDJB-MJHT")

	next, _ = next.Update(flowMsg(application.FlowStatus{State: domain.FlowCancelled, Err: domain.ErrFlowCancelled}))
	view := next.View()
	assert.NotContains(t, view, "WDJB-MJHT")
	assert.NotContains(t, view, domain.ErrFlowCancelled.Error())
}

func TestModelClearsPromptAfterSignIn(t *testing.T) {
	m := NewModel(context.Background(), &fakeController{}, func() time.Time { return testNow })

	next, _ := m.Update(flowMsg(application.FlowStatus{
		State:   domain.FlowPolling,
		Session: &domain.DeviceAuthSession{UserCode: "WDJB-MJHT", VerificationURI: "https://github.com/login/device"},
	}))
	assert.Contains(t, next.View(), "WDJB-MJHT")

	next, _ = next.Update(flowMsg(application.FlowStatus{State: domain.FlowSucceeded}))
	assert.NotContains(t, next.View(), "WDJB-MJHT")
	assert.Contains(t, next.View(), "Signed in.")
}

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestSinkForwardsToProgram(t *testing.T) {
	sender := &recordingSender{}
	sink := NewSink(sender)

	sink.SetText(" ▰▱▱▱▱ 12%")
	sink.SetMenu(domain.MenuSummary(nil))
	sink.ObserveUsage(application.UsageState{Percent: 12})
	sink.ObserveFlow(application.FlowStatus{State: domain.FlowPolling})

	require.Len(t, sender.msgs, 4)
	assert.Equal(t, textMsg(" ▰▱▱▱▱ 12%"), sender.msgs[0])
	assert.IsType(t, menuMsg{}, sender.msgs[1])
	assert.Equal(t, stateMsg(application.UsageState{Percent: 12}), sender.msgs[2])
	assert.Equal(t, flowMsg(application.FlowStatus{State: domain.FlowPolling}), sender.msgs[3])
}

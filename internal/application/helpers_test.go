package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/copilot-usage/internal/domain"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func mockAnyContext() interface{} {
	return mock.Anything
}

func usageJSON(used, limit int64) []byte {
	return []byte(fmt.Sprintf(`{"quota_snapshots":{"premium_interactions":{"entitlement":%d,"remaining":%d}}}`, limit, limit-used))
}

func testDeviceCode() domain.DeviceCode {
	return domain.DeviceCode{
		UserCode:        "WDJB-MJHT",
		VerificationURI: "https://github.com/login/device",
		DeviceCode:      "device-123",
		Interval:        5 * time.Second,
		ExpiresAt:       testNow.Add(15 * time.Minute),
	}
}

// instantClock fires every timer immediately and remembers the requested waits.
type instantClock struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (c *instantClock) Now() time.Time { return testNow }

func (c *instantClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()

	ch := make(chan time.Time, 1)
	ch <- testNow.Add(d)
	return ch
}

func (c *instantClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.waits...)
}

type timerRequest struct {
	d  time.Duration
	ch chan time.Time
}

func (r timerRequest) fire() {
	r.ch <- testNow.Add(r.d)
}

// manualClock hands every timer to the test, which decides when it fires.
type manualClock struct {
	requests chan timerRequest
}

func newManualClock() *manualClock {
	return &manualClock{requests: make(chan timerRequest, 64)}
}

func (c *manualClock) Now() time.Time { return testNow }

func (c *manualClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.requests <- timerRequest{d: d, ch: ch}
	return ch
}

func (c *manualClock) nextTimer(t *testing.T) timerRequest {
	t.Helper()
	select {
	case r := <-c.requests:
		return r
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for a timer")
		return timerRequest{}
	}
}

func (c *manualClock) assertNoTimer(t *testing.T, within time.Duration) {
	t.Helper()
	select {
	case r := <-c.requests:
		require.FailNow(t, "unexpected timer", "duration %s", r.d)
	case <-time.After(within):
	}
}

type memCredentials struct {
	mu    sync.Mutex
	token string
	sets  []string
}

func (m *memCredentials) Get(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", domain.ErrCredentialNotFound
	}
	return m.token, nil
}

func (m *memCredentials) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.sets = append(m.sets, token)
	return nil
}

func (m *memCredentials) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *memCredentials) current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memCredentials) writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sets...)
}

type recordingSink struct {
	mu    sync.Mutex
	texts []string
	menus []domain.Menu
}

func (s *recordingSink) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *recordingSink) SetMenu(menu domain.Menu) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menus = append(s.menus, menu)
}

func (s *recordingSink) lastText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

func (s *recordingSink) lastMenu() domain.Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.menus) == 0 {
		return domain.Menu{}
	}
	return s.menus[len(s.menus)-1]
}

type recordingListener struct {
	mu     sync.Mutex
	tokens []string
}

func (l *recordingListener) OnCredentialEstablished(_ context.Context, token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens = append(l.tokens, token)
}

func (l *recordingListener) received() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.tokens...)
}

func waitFlow(t *testing.T, controller *DeviceFlowController) FlowStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	status, err := controller.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return status
}

package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeviceAuthSessionPollWait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{name: "zero uses floor", interval: 0, want: 5 * time.Second},
		{name: "below floor", interval: time.Second, want: 5 * time.Second},
		{name: "at floor", interval: 5 * time.Second, want: 5 * time.Second},
		{name: "above floor", interval: 8 * time.Second, want: 8 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			session := DeviceAuthSession{Interval: tt.interval}
			assert.Equal(t, tt.want, session.PollWait())
		})
	}
}

func TestDeviceAuthSessionSlowDown(t *testing.T) {
	t.Parallel()

	session := NewDeviceAuthSession(DeviceCode{UserCode: "ABCD-1234", Interval: 5 * time.Second}, time.Unix(0, 0))

	session.SlowDown(0)
	assert.Equal(t, 10*time.Second, session.Interval)

	session.SlowDown(0)
	assert.Equal(t, 15*time.Second, session.Interval)

	session.SlowDown(30 * time.Second)
	assert.Equal(t, 30*time.Second, session.Interval)
	assert.Equal(t, 30*time.Second, session.PollWait())
}

func TestDeviceAuthSessionSlowDownFromSmallInterval(t *testing.T) {
	t.Parallel()

	session := NewDeviceAuthSession(DeviceCode{Interval: time.Second}, time.Unix(0, 0))
	session.SlowDown(0)

	assert.Equal(t, 10*time.Second, session.Interval)
}

func TestFlowStateClassification(t *testing.T) {
	t.Parallel()

	for _, state := range []FlowState{FlowStarting, FlowAwaitingUserAction, FlowPolling} {
		assert.True(t, state.Live(), string(state))
		assert.False(t, state.Terminal(), string(state))
	}
	for _, state := range []FlowState{FlowSucceeded, FlowFailed, FlowTimedOut, FlowCancelled} {
		assert.False(t, state.Live(), string(state))
		assert.True(t, state.Terminal(), string(state))
	}
	assert.False(t, FlowIdle.Live())
	assert.False(t, FlowIdle.Terminal())
}

func TestNewAuthErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "The device code has expired. Please start over.", NewAuthError(OAuthErrorExpiredToken).Error())
	assert.Equal(t, "Access was denied by the user.", NewAuthError(OAuthErrorAccessDenied).Error())
	assert.Equal(t, "Authentication error: unsupported_grant_type", NewAuthError("unsupported_grant_type").Error())
}

func TestErrorKindsMatchSentinels(t *testing.T) {
	t.Parallel()

	transport := fmt.Errorf("exchange: %w", &TransportError{Op: "POST token", Err: errors.New("connection refused")})
	assert.ErrorIs(t, transport, ErrTransport)
	assert.Contains(t, transport.Error(), "connection refused")

	pending := &PendingError{Code: OAuthErrorSlowDown, Interval: 10}
	assert.ErrorIs(t, pending, ErrAuthPending)
	assert.True(t, pending.SlowDown())
	assert.False(t, (&PendingError{Code: OAuthErrorAuthorizationPending}).SlowDown())

	assert.ErrorIs(t, NewAuthError(OAuthErrorAccessDenied), ErrAuthDenied)
	assert.NotErrorIs(t, NewAuthError(OAuthErrorAccessDenied), ErrAuthPending)

	fetch := &UsageFetchError{Err: transport}
	assert.ErrorIs(t, fetch, ErrUsageFetch)
	assert.ErrorIs(t, fetch, ErrTransport)

	var target *AuthError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", NewAuthError("bad")), &target))
	assert.Equal(t, "bad", target.Code)
}

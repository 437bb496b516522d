package domain

import "time"

const (
	// MinPollInterval is the floor applied to server-advertised poll intervals.
	MinPollInterval = 5 * time.Second
	// SlowDownIncrement is added to the interval on every slow_down response.
	SlowDownIncrement = 5 * time.Second
	// MaxPollAttempts bounds the number of pending responses before the flow times out.
	MaxPollAttempts = 30
)

type FlowState string

const (
	FlowIdle               FlowState = "idle"
	FlowStarting           FlowState = "starting"
	FlowAwaitingUserAction FlowState = "awaiting_user_action"
	FlowPolling            FlowState = "polling"
	FlowSucceeded          FlowState = "succeeded"
	FlowFailed             FlowState = "failed"
	FlowTimedOut           FlowState = "timed_out"
	FlowCancelled          FlowState = "cancelled"
)

// Live reports whether a device authorization session exists in this state.
func (s FlowState) Live() bool {
	switch s {
	case FlowStarting, FlowAwaitingUserAction, FlowPolling:
		return true
	default:
		return false
	}
}

func (s FlowState) Terminal() bool {
	switch s {
	case FlowSucceeded, FlowFailed, FlowTimedOut, FlowCancelled:
		return true
	default:
		return false
	}
}

// DeviceCode is what the authorization server hands out when a device flow starts.
type DeviceCode struct {
	UserCode        string
	VerificationURI string
	DeviceCode      string
	Interval        time.Duration
	ExpiresAt       time.Time
}

type DeviceAuthSession struct {
	UserCode        string
	VerificationURI string
	DeviceCode      string
	Interval        time.Duration
	StartedAt       time.Time
	ExpiresAt       time.Time
	Attempts        int
}

func NewDeviceAuthSession(code DeviceCode, startedAt time.Time) *DeviceAuthSession {
	return &DeviceAuthSession{
		UserCode:        code.UserCode,
		VerificationURI: code.VerificationURI,
		DeviceCode:      code.DeviceCode,
		Interval:        code.Interval,
		StartedAt:       startedAt,
		ExpiresAt:       code.ExpiresAt,
	}
}

// PollWait is the delay before the next token exchange: the session interval
// with MinPollInterval as a floor.
func (s DeviceAuthSession) PollWait() time.Duration {
	return max(MinPollInterval, s.Interval)
}

// SlowDown grows the interval after a slow_down response. A server-advertised
// interval wins when it is larger than the incremented one.
func (s *DeviceAuthSession) SlowDown(advertised time.Duration) {
	next := max(s.Interval, MinPollInterval) + SlowDownIncrement
	s.Interval = max(next, advertised)
}

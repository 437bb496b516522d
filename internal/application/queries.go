package application

import (
	"time"

	"github.com/bnema/copilot-usage/internal/domain"
)

// FlowStatus is a copy of the device flow controller state. Session is nil
// outside of a live flow.
type FlowStatus struct {
	State   domain.FlowState
	Session *domain.DeviceAuthSession
	Err     error
}

// UsageState is what indicator sinks and observers see after every change.
// Snapshot survives failed refreshes; Err describes the most recent failure.
type UsageState struct {
	Snapshot   *domain.UsageSnapshot
	Err        error
	Refreshing bool
	UpdatedAt  time.Time
	Percent    int
	Text       string
	Menu       domain.Menu
}

func (s UsageState) Stale() bool {
	return s.Snapshot != nil && s.Err != nil
}

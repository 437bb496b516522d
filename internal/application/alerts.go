package application

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bnema/copilot-usage/internal/ports"
)

var alertThresholds = []int{80, 100}

const resetDropPoints = 20

// UsageAlerts turns usage state changes into desktop notifications: premium
// usage crossing a threshold upward, a quota reset, and the first failure
// after a healthy refresh. The first snapshot only sets the baseline.
type UsageAlerts struct {
	notifier ports.Notifier
	logger   *zap.Logger

	mu          sync.Mutex
	havePercent bool
	lastPercent int
	failing     bool
}

func NewUsageAlerts(notifier ports.Notifier, logger *zap.Logger) *UsageAlerts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageAlerts{notifier: notifier, logger: logger.Named("alerts")}
}

// Observe is meant to be registered with UsageRefresher.Subscribe.
func (a *UsageAlerts) Observe(state UsageState) {
	if state.Refreshing {
		return
	}

	a.mu.Lock()
	messages := a.evaluateLocked(state)
	a.mu.Unlock()

	for _, m := range messages {
		if err := a.notifier.Notify(m[0], m[1]); err != nil {
			a.logger.Debug("desktop notification failed", zap.Error(err))
		}
	}
}

func (a *UsageAlerts) evaluateLocked(state UsageState) [][2]string {
	var messages [][2]string

	if state.Err != nil {
		if !a.failing {
			a.failing = true
			messages = append(messages, [2]string{"Copilot usage refresh failed", state.Err.Error()})
		}
		return messages
	}
	a.failing = false

	if state.Snapshot == nil {
		a.havePercent = false
		return messages
	}

	current := state.Percent
	previous := a.lastPercent
	hadPrevious := a.havePercent
	a.lastPercent = current
	a.havePercent = true
	if !hadPrevious {
		return messages
	}

	for _, threshold := range alertThresholds {
		if previous < threshold && current >= threshold {
			messages = append(messages, [2]string{
				fmt.Sprintf("Copilot premium requests at %d%%", current),
				fmt.Sprintf("Used %d of %d premium requests.", state.Snapshot.PremiumUsed, state.Snapshot.PremiumLimit),
			})
			break
		}
	}

	if previous-current > resetDropPoints {
		messages = append(messages, [2]string{"Copilot premium requests reset", "Your premium request quota has been refreshed."})
	}

	return messages
}

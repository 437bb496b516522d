package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/metrics"
	"github.com/bnema/copilot-usage/internal/ports"
)

// ErrClosed is returned by components that have been shut down.
var ErrClosed = errors.New("component closed")

// CredentialListener is told about every credential the flow establishes.
// Implementations must not block on the network.
type CredentialListener interface {
	OnCredentialEstablished(ctx context.Context, token string)
}

// DeviceFlowController drives one device authorization at a time.
//
// Every flow is tagged with a generation number. Cancel, Close and a new
// Start bump the generation, and results that come back for an older
// generation are dropped without touching any state.
type DeviceFlowController struct {
	remote      ports.RemoteClient
	credentials ports.CredentialStore
	listener    CredentialListener
	opener      ports.URLOpener
	clock       ports.Clock
	logger      *zap.Logger

	mu         sync.Mutex
	generation uint64
	state      domain.FlowState
	session    *domain.DeviceAuthSession
	err        error
	cancel     context.CancelFunc
	done       chan struct{}
	closed     bool

	observers observerSet[FlowStatus]
}

func NewDeviceFlowController(
	remote ports.RemoteClient,
	credentials ports.CredentialStore,
	listener CredentialListener,
	opener ports.URLOpener,
	clock ports.Clock,
	logger *zap.Logger,
) *DeviceFlowController {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	done := make(chan struct{})
	close(done)

	return &DeviceFlowController{
		remote:      remote,
		credentials: credentials,
		listener:    listener,
		opener:      opener,
		clock:       clock,
		logger:      logger.Named("deviceflow"),
		state:       domain.FlowIdle,
		done:        done,
	}
}

// Start requests a device code and starts polling for the token in the
// background. It returns once the user code is known. Start is accepted from
// the idle state and from any finished flow.
func (c *DeviceFlowController) Start(ctx context.Context) (FlowStatus, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return FlowStatus{}, ErrClosed
	}
	// A new flow may begin from Idle or after any finished flow.
	if c.state != domain.FlowIdle && !c.state.Terminal() {
		status := c.statusLocked()
		c.mu.Unlock()
		return status, domain.ErrFlowBusy
	}

	c.generation++
	gen := c.generation
	flowCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.done = make(chan struct{})
	c.state = domain.FlowStarting
	c.session = nil
	c.err = nil
	starting := c.statusLocked()
	c.mu.Unlock()

	c.observers.publish(starting)

	code, err := c.remote.StartDeviceFlow(flowCtx)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return FlowStatus{State: domain.FlowCancelled, Err: domain.ErrFlowCancelled}, domain.ErrFlowCancelled
	}
	if err != nil {
		failed := c.finishLocked(domain.FlowFailed, fmt.Errorf("start device flow: %w", err))
		c.mu.Unlock()
		c.observers.publish(failed)
		return failed, failed.Err
	}

	c.session = domain.NewDeviceAuthSession(code, c.clock.Now())
	c.state = domain.FlowAwaitingUserAction
	awaiting := c.statusLocked()
	c.mu.Unlock()

	c.logger.Info("device authorization started",
		zap.String("user_code", code.UserCode),
		zap.String("verification_uri", code.VerificationURI),
		zap.Duration("interval", code.Interval),
	)
	c.observers.publish(awaiting)
	c.openVerificationURI(code.VerificationURI)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return awaiting, nil
	}
	c.state = domain.FlowPolling
	polling := c.statusLocked()
	c.mu.Unlock()

	c.observers.publish(polling)
	go c.poll(flowCtx, gen)

	return awaiting, nil
}

// Cancel stops a live flow. It reports whether there was one to stop.
func (c *DeviceFlowController) Cancel() bool {
	c.mu.Lock()
	if !c.state.Live() {
		c.mu.Unlock()
		return false
	}

	c.generation++
	cancelled := c.finishLocked(domain.FlowCancelled, domain.ErrFlowCancelled)
	c.mu.Unlock()

	c.logger.Info("device authorization cancelled")
	c.observers.publish(cancelled)
	return true
}

// Close stops any polling without publishing a final state.
func (c *DeviceFlowController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.closeDoneLocked()
}

func (c *DeviceFlowController) Status() FlowStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.statusLocked()
}

// Done is closed when the current flow reaches a terminal state.
func (c *DeviceFlowController) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.done
}

// Wait blocks until the current flow finishes or ctx is done.
func (c *DeviceFlowController) Wait(ctx context.Context) (FlowStatus, error) {
	select {
	case <-c.Done():
	case <-ctx.Done():
		return c.Status(), ctx.Err()
	}

	status := c.Status()
	return status, status.Err
}

// Subscribe registers fn for every state change and returns a function that
// removes it. fn runs on the goroutine that made the change.
func (c *DeviceFlowController) Subscribe(fn func(FlowStatus)) func() {
	return c.observers.add(fn)
}

func (c *DeviceFlowController) poll(ctx context.Context, gen uint64) {
	var wait time.Duration
	for {
		if wait > 0 {
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-c.clock.After(wait):
			}
		}

		c.mu.Lock()
		if gen != c.generation || c.session == nil {
			c.mu.Unlock()
			return
		}
		deviceCode := c.session.DeviceCode
		c.mu.Unlock()

		token, err := c.remote.ExchangeDeviceCode(ctx, deviceCode)

		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			c.logger.Debug("dropping token exchange result of a superseded flow")
			return
		}
		status, next, finished := c.handleExchangeLocked(ctx, token, err)
		c.mu.Unlock()

		c.observers.publish(status)
		if finished {
			return
		}
		wait = next
	}
}

// handleExchangeLocked classifies one token exchange. On success the
// credential write and the listener handoff happen before the lock is
// released, so a concurrent Cancel observes either both or neither.
func (c *DeviceFlowController) handleExchangeLocked(ctx context.Context, token string, err error) (FlowStatus, time.Duration, bool) {
	var pending *domain.PendingError

	switch {
	case err == nil:
		token = strings.TrimSpace(token)
		if token == "" {
			return c.finishLocked(domain.FlowFailed, fmt.Errorf("%w: empty access token", domain.ErrMalformedResponse)), 0, true
		}
		if err := c.credentials.Set(ctx, token); err != nil {
			return c.finishLocked(domain.FlowFailed, fmt.Errorf("store credential: %w", err)), 0, true
		}
		if c.listener != nil {
			c.listener.OnCredentialEstablished(ctx, token)
		}
		c.logger.Info("device authorization succeeded", zap.Int("pending_attempts", c.session.Attempts))
		return c.finishLocked(domain.FlowSucceeded, nil), 0, true

	case errors.As(err, &pending):
		c.session.Attempts++
		if pending.SlowDown() {
			c.session.SlowDown(time.Duration(pending.Interval) * time.Second)
			c.logger.Debug("authorization server asked to slow down", zap.Duration("interval", c.session.Interval))
		}
		if c.session.Attempts >= domain.MaxPollAttempts {
			c.logger.Warn("device authorization timed out", zap.Int("attempts", c.session.Attempts))
			return c.finishLocked(domain.FlowTimedOut, domain.ErrAuthTimeout), 0, true
		}
		return c.statusLocked(), c.session.PollWait(), false

	default:
		c.logger.Warn("device authorization failed", zap.Error(err))
		return c.finishLocked(domain.FlowFailed, err), 0, true
	}
}

func (c *DeviceFlowController) finishLocked(state domain.FlowState, err error) FlowStatus {
	c.state = state
	c.err = err
	c.session = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.closeDoneLocked()
	metrics.DeviceFlowTotal.WithLabelValues(string(state)).Inc()

	return c.statusLocked()
}

func (c *DeviceFlowController) closeDoneLocked() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *DeviceFlowController) statusLocked() FlowStatus {
	status := FlowStatus{State: c.state, Err: c.err}
	if c.session != nil {
		session := *c.session
		status.Session = &session
	}
	return status
}

func (c *DeviceFlowController) openVerificationURI(uri string) {
	if c.opener == nil || uri == "" {
		return
	}
	if err := c.opener.OpenURL(uri); err != nil {
		c.logger.Warn("could not open verification page", zap.String("uri", uri), zap.Error(err))
	}
}

package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/metrics"
	"github.com/bnema/copilot-usage/internal/ports"
)

const DefaultRefreshInterval = 5 * time.Minute

// UsageRefresher keeps the usage snapshot current while a credential exists.
//
// Two counters keep concurrent refreshes honest. The generation changes
// whenever the credential is established or cleared, and results from an
// older generation are dropped. Within a generation every refresh takes a
// sequence number and only results newer than the last committed one apply.
type UsageRefresher struct {
	remote      ports.RemoteClient
	credentials ports.CredentialStore
	prefs       ports.PreferencesStore
	sink        ports.IndicatorSink
	clock       ports.Clock
	interval    time.Duration
	logger      *zap.Logger

	mu         sync.Mutex
	generation uint64
	seq        uint64
	committed  uint64
	inFlight   int
	snapshot   *domain.UsageSnapshot
	err        error
	updatedAt  time.Time
	cancel     context.CancelFunc
	closed     bool

	renderMu  sync.Mutex
	observers observerSet[UsageState]
}

func NewUsageRefresher(
	remote ports.RemoteClient,
	credentials ports.CredentialStore,
	prefs ports.PreferencesStore,
	sink ports.IndicatorSink,
	clock ports.Clock,
	interval time.Duration,
	logger *zap.Logger,
) *UsageRefresher {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UsageRefresher{
		remote:      remote,
		credentials: credentials,
		prefs:       prefs,
		sink:        sink,
		clock:       clock,
		interval:    interval,
		logger:      logger.Named("refresher"),
	}
}

// OnCredentialEstablished refreshes right away and then every interval until
// the credential is cleared or the refresher is closed. It returns without
// waiting for the network. Periodic ticks read the token from the credential
// store again, so a replaced credential is picked up on the next tick.
func (r *UsageRefresher) OnCredentialEstablished(ctx context.Context, token string) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.generation++
	r.inFlight = 0
	gen := r.generation
	if r.cancel != nil {
		r.cancel()
	}
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	r.mu.Unlock()

	r.logger.Debug("credential established, scheduling refreshes", zap.Duration("interval", r.interval))
	go r.run(loopCtx, gen, token)
}

// OnCredentialCleared stops the schedule and forgets the snapshot.
func (r *UsageRefresher) OnCredentialCleared(ctx context.Context) {
	r.mu.Lock()
	r.generation++
	r.inFlight = 0
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.snapshot = nil
	r.err = nil
	r.updatedAt = time.Time{}
	r.mu.Unlock()

	metrics.ResetSnapshot()
	r.logger.Debug("credential cleared, refreshes stopped")
	r.Rerender(ctx)
}

// RefreshNow fetches usage with token and publishes the outcome. A failure
// keeps the previous snapshot and is returned as *domain.UsageFetchError.
func (r *UsageRefresher) RefreshNow(ctx context.Context, token string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	gen := r.generation
	r.mu.Unlock()

	return r.refresh(ctx, gen, token)
}

// Rerender publishes the current state again, e.g. after the display
// preferences changed.
func (r *UsageRefresher) Rerender(ctx context.Context) {
	r.render(ctx)
}

func (r *UsageRefresher) State() UsageState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.stateLocked()
}

// Subscribe registers fn for every published state and returns a function
// that removes it.
func (r *UsageRefresher) Subscribe(fn func(UsageState)) func() {
	return r.observers.add(fn)
}

// Close stops the schedule. In-flight refreshes finish without publishing.
func (r *UsageRefresher) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.generation++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *UsageRefresher) run(ctx context.Context, gen uint64, token string) {
	r.safely(func() {
		_ = r.refresh(ctx, gen, token)
	})

	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-r.clock.After(r.interval):
		}

		r.safely(func() {
			r.tick(ctx, gen)
		})
	}
}

func (r *UsageRefresher) tick(ctx context.Context, gen uint64) {
	token, err := r.credentials.Get(ctx)
	if err != nil {
		r.logger.Warn("periodic refresh could not read credential", zap.Error(err))
		r.recordFailure(ctx, gen, fmt.Errorf("read credential: %w", err))
		return
	}

	_ = r.refresh(ctx, gen, token)
}

func (r *UsageRefresher) safely(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("usage refresh panicked", zap.Any("panic", p), zap.Stack("stack"))
		}
	}()
	fn()
}

func (r *UsageRefresher) refresh(ctx context.Context, gen uint64, token string) error {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return nil
	}
	r.seq++
	seq := r.seq
	r.inFlight++
	r.mu.Unlock()

	r.render(ctx)

	started := r.clock.Now()
	snapshot, err := r.fetch(ctx, token)
	metrics.RefreshDuration.Observe(r.clock.Now().Sub(started).Seconds())

	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		r.logger.Debug("dropping usage refresh of a superseded credential")
		return err
	}
	r.inFlight--
	if seq <= r.committed {
		r.mu.Unlock()
		r.logger.Debug("dropping out of order usage refresh", zap.Uint64("seq", seq))
		return err
	}
	r.committed = seq
	r.updatedAt = r.clock.Now()
	if err != nil {
		r.err = err
	} else {
		r.snapshot = &snapshot
		r.err = nil
	}
	r.mu.Unlock()

	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		r.logger.Warn("usage refresh failed", zap.Error(err))
	} else {
		metrics.RefreshTotal.WithLabelValues("success").Inc()
		metrics.ObserveSnapshot(snapshot.PremiumUsed, snapshot.PremiumLimit, snapshot.PremiumPercent(), float64(snapshot.FetchedAt.Unix()))
		r.logger.Info("usage refreshed",
			zap.Int64("premium_used", snapshot.PremiumUsed),
			zap.Int64("premium_limit", snapshot.PremiumLimit),
		)
	}

	r.render(ctx)
	return err
}

func (r *UsageRefresher) fetch(ctx context.Context, token string) (domain.UsageSnapshot, error) {
	raw, err := r.remote.FetchUsage(ctx, token)
	if err != nil {
		return domain.UsageSnapshot{}, asUsageFetchError(err)
	}

	snapshot, err := domain.ParseUsage(raw, r.clock.Now())
	if err != nil {
		return domain.UsageSnapshot{}, asUsageFetchError(err)
	}
	return snapshot, nil
}

func (r *UsageRefresher) recordFailure(ctx context.Context, gen uint64, err error) {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return
	}
	r.seq++
	r.committed = r.seq
	r.err = asUsageFetchError(err)
	r.updatedAt = r.clock.Now()
	r.mu.Unlock()

	metrics.RefreshTotal.WithLabelValues("failure").Inc()
	r.render(ctx)
}

// render pushes the latest state. Rendering is serialized and always reads
// the current state, so the last push reflects the newest commit.
func (r *UsageRefresher) render(ctx context.Context) {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	state := r.stateLocked()
	r.mu.Unlock()

	prefs := loadDisplayPreferences(ctx, r.prefs, r.logger)
	state.Text = domain.IndicatorText(state.Percent, prefs)

	if r.sink != nil {
		r.sink.SetText(state.Text)
		r.sink.SetMenu(state.Menu)
	}
	r.observers.publish(state)
}

func (r *UsageRefresher) stateLocked() UsageState {
	state := UsageState{
		Err:        r.err,
		Refreshing: r.inFlight > 0,
		UpdatedAt:  r.updatedAt,
		Menu:       domain.MenuSummary(r.snapshot),
	}
	if r.snapshot != nil {
		snapshot := *r.snapshot
		state.Snapshot = &snapshot
		state.Percent = snapshot.PremiumPercent()
	}
	return state
}

func asUsageFetchError(err error) error {
	var fetchErr *domain.UsageFetchError
	if errors.As(err, &fetchErr) {
		return err
	}
	return &domain.UsageFetchError{Err: err}
}

func loadDisplayPreferences(ctx context.Context, store ports.PreferencesStore, logger *zap.Logger) domain.DisplayPreferences {
	prefs := domain.DefaultDisplayPreferences()
	if store == nil {
		return prefs
	}

	if value, err := store.GetBool(ctx, domain.PrefShowBar); err != nil {
		logger.Warn("read display preference", zap.String("key", domain.PrefShowBar), zap.Error(err))
	} else {
		prefs.ShowBar = value
	}
	if value, err := store.GetBool(ctx, domain.PrefShowPercent); err != nil {
		logger.Warn("read display preference", zap.String("key", domain.PrefShowPercent), zap.Error(err))
	} else {
		prefs.ShowPercent = value
	}
	return prefs
}

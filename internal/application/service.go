package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

type Dependencies struct {
	Remote          ports.RemoteClient
	Identity        ports.IdentityClient
	Credentials     ports.CredentialStore
	Preferences     ports.PreferencesStore
	Autostart       ports.Autostart
	Sink            ports.IndicatorSink
	Opener          ports.URLOpener
	Clock           ports.Clock
	RefreshInterval time.Duration
	Logger          *zap.Logger
}

// Service is the single writer of the credential store. Everything that
// establishes or removes a credential goes through it so the flow
// controller and the refresher never disagree about the current token.
type Service struct {
	credentials ports.CredentialStore
	prefs       ports.PreferencesStore
	autostart   ports.Autostart
	identity    ports.IdentityClient
	logger      *zap.Logger

	flow      *DeviceFlowController
	refresher *UsageRefresher
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	refresher := NewUsageRefresher(deps.Remote, deps.Credentials, deps.Preferences, deps.Sink, deps.Clock, deps.RefreshInterval, logger)
	flow := NewDeviceFlowController(deps.Remote, deps.Credentials, refresher, deps.Opener, deps.Clock, logger)

	return &Service{
		credentials: deps.Credentials,
		prefs:       deps.Preferences,
		autostart:   deps.Autostart,
		identity:    deps.Identity,
		logger:      logger,
		flow:        flow,
		refresher:   refresher,
	}
}

// Bootstrap starts refreshing when a credential is already stored, and
// otherwise renders the empty indicator.
func (s *Service) Bootstrap(ctx context.Context) error {
	token, err := s.credentials.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			s.refresher.Rerender(ctx)
			return nil
		}
		return fmt.Errorf("read credential: %w", err)
	}

	s.refresher.OnCredentialEstablished(ctx, token)
	return nil
}

func (s *Service) StartDeviceFlow(ctx context.Context) (FlowStatus, error) {
	return s.flow.Start(ctx)
}

func (s *Service) DeviceFlowStatus() FlowStatus {
	return s.flow.Status()
}

func (s *Service) WaitDeviceFlow(ctx context.Context) (FlowStatus, error) {
	return s.flow.Wait(ctx)
}

func (s *Service) CancelDeviceFlow() bool {
	return s.flow.Cancel()
}

func (s *Service) SubscribeDeviceFlow(fn func(FlowStatus)) func() {
	return s.flow.Subscribe(fn)
}

// SaveManualCredential stores a token the user pasted in. A live device flow
// is cancelled before the write so its late result cannot overwrite it.
func (s *Service) SaveManualCredential(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrEmptyCredential
	}

	s.flow.Cancel()

	if err := s.credentials.Set(ctx, token); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	s.refresher.OnCredentialEstablished(ctx, token)
	return nil
}

func (s *Service) SignOut(ctx context.Context) error {
	s.flow.Cancel()

	if err := s.credentials.Clear(ctx); err != nil && !errors.Is(err, domain.ErrCredentialNotFound) {
		return fmt.Errorf("clear credential: %w", err)
	}
	s.refresher.OnCredentialCleared(ctx)
	return nil
}

func (s *Service) HasCredential(ctx context.Context) (bool, error) {
	if _, err := s.credentials.Get(ctx); err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read credential: %w", err)
	}
	return true, nil
}

// RefreshNow runs one refresh with the stored credential and returns the
// resulting state. The state keeps the last good snapshot when err is a
// usage fetch failure.
func (s *Service) RefreshNow(ctx context.Context) (UsageState, error) {
	token, err := s.credentials.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return s.refresher.State(), err
		}
		return s.refresher.State(), fmt.Errorf("read credential: %w", err)
	}

	err = s.refresher.RefreshNow(ctx, token)
	return s.UsageState(ctx), err
}

// UsageState returns the current state with the indicator text rendered for
// the stored display preferences.
func (s *Service) UsageState(ctx context.Context) UsageState {
	state := s.refresher.State()
	state.Text = domain.IndicatorText(state.Percent, loadDisplayPreferences(ctx, s.prefs, s.logger))
	return state
}

func (s *Service) SubscribeUsage(fn func(UsageState)) func() {
	return s.refresher.Subscribe(fn)
}

func (s *Service) DisplayPreferences(ctx context.Context) (domain.DisplayPreferences, error) {
	prefs := domain.DefaultDisplayPreferences()

	showBar, err := s.prefs.GetBool(ctx, domain.PrefShowBar)
	if err != nil {
		return prefs, fmt.Errorf("get %s: %w", domain.PrefShowBar, err)
	}
	showPercent, err := s.prefs.GetBool(ctx, domain.PrefShowPercent)
	if err != nil {
		return prefs, fmt.Errorf("get %s: %w", domain.PrefShowPercent, err)
	}

	prefs.ShowBar = showBar
	prefs.ShowPercent = showPercent
	return prefs, nil
}

// SetDisplayPreference persists one toggle and re-renders the indicator.
func (s *Service) SetDisplayPreference(ctx context.Context, key string, value bool) error {
	if !domain.ValidPreferenceKey(key) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPreference, key)
	}
	if err := s.prefs.SetBool(ctx, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	s.refresher.Rerender(ctx)
	return nil
}

// Rerender publishes the current state again, e.g. after the preferences
// file was edited by another process.
func (s *Service) Rerender(ctx context.Context) {
	s.refresher.Rerender(ctx)
}

func (s *Service) AutostartEnabled(ctx context.Context) (bool, error) {
	if s.autostart == nil {
		return false, domain.ErrAutostartUnsupported
	}
	enabled, err := s.autostart.IsEnabled(ctx)
	if err != nil {
		return false, fmt.Errorf("read autostart state: %w", err)
	}
	return enabled, nil
}

func (s *Service) SetAutostart(ctx context.Context, enabled bool) error {
	if s.autostart == nil {
		return domain.ErrAutostartUnsupported
	}

	if enabled {
		if err := s.autostart.Enable(ctx); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}
		return nil
	}
	if err := s.autostart.Disable(ctx); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

// ToggleAutostart flips launch at login and returns the new state.
func (s *Service) ToggleAutostart(ctx context.Context) (bool, error) {
	enabled, err := s.AutostartEnabled(ctx)
	if err != nil {
		return false, err
	}
	if err := s.SetAutostart(ctx, !enabled); err != nil {
		return enabled, err
	}
	return !enabled, nil
}

// Whoami returns the login that owns the stored credential.
func (s *Service) Whoami(ctx context.Context) (string, error) {
	token, err := s.credentials.Get(ctx)
	if err != nil {
		return "", err
	}
	if s.identity == nil {
		return "", errors.New("identity lookup is not configured")
	}

	login, err := s.identity.Whoami(ctx, token)
	if err != nil {
		return "", fmt.Errorf("look up identity: %w", err)
	}
	return login, nil
}

func (s *Service) Close() {
	s.flow.Close()
	s.refresher.Close()
}

package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/copilot-usage/internal/adapters/secrets/file"
	keyringstore "github.com/bnema/copilot-usage/internal/adapters/secrets/keyring"
	passstore "github.com/bnema/copilot-usage/internal/adapters/secrets/pass"
	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

// Store tries its backends in order. Reads return the first hit, writes land
// in the first backend that accepts them, and deletes reach every backend so
// a stale copy cannot resurface after sign-out.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNoBackends = errors.New("secret store chain has no backends")
	errNilBackend = errors.New("secret store backend is nil")
)

func NewStore(backends ...ports.SecretStore) *Store {
	store, err := NewStoreChecked(backends...)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("backend %d: %w", i, errNilBackend)
		}
	}

	return &Store{backends: append([]ports.SecretStore(nil), backends...)}, nil
}

// NewDefault chains the OS keychain, pass, and a file store below fileRoot.
func NewDefault(service string, fileRoot string) (*Store, error) {
	return NewStoreChecked(keyringstore.NewStore(service), passstore.NewStore(), filestore.NewStore(fileRoot))
}

// Put writes to the first backend that accepts the secret. Backends ahead of
// it that refused the write are cleared, since Get would otherwise keep
// returning their older copy.
func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return s.clearStale(ctx, key, i)
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d put failed: %w", i, err))
	}

	return errors.Join(errs...)
}

func (s *Store) clearStale(ctx context.Context, key string, written int) error {
	var errs []error
	for i, backend := range s.backends[:written] {
		if err := backend.Delete(ctx, key); !holdsNoCopy(err) {
			errs = append(errs, fmt.Errorf("backend %d keeps a stale copy: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("secret %q written to backend %d: %w", key, written, errors.Join(errs...))
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if shouldSkipFallback(err) {
			return "", err
		}
		if errors.Is(err, domain.ErrSecretNotFound) || errors.Is(err, domain.ErrSecretStoreUnavailable) {
			continue
		}
		errs = append(errs, fmt.Errorf("backend %d get failed: %w", i, err))
	}

	if len(errs) == 0 {
		return "", fmt.Errorf("secret %q: %w", key, domain.ErrSecretNotFound)
	}
	return "", errors.Join(errs...)
}

// Delete removes the secret from every backend. It fails if any backend may
// still hold a copy.
func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Delete(ctx, key)
		if holdsNoCopy(err) {
			continue
		}
		if shouldSkipFallback(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d delete failed: %w", i, err))
	}

	return errors.Join(errs...)
}

// holdsNoCopy reports whether a Delete result leaves the backend without the
// secret. A backend that is not installed never stored it.
func holdsNoCopy(err error) bool {
	return err == nil ||
		errors.Is(err, domain.ErrSecretNotFound) ||
		errors.Is(err, domain.ErrSecretStoreUnavailable)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Package credential stores the single GitHub token on top of a secret store.
package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/copilot-usage/internal/domain"
	"github.com/bnema/copilot-usage/internal/ports"
)

const DefaultKey = "copilot-usage/github/token"

type Store struct {
	secrets ports.SecretStore
	key     string
}

var _ ports.CredentialStore = (*Store)(nil)

func NewStore(secrets ports.SecretStore, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{secrets: secrets, key: key}
}

// Get returns domain.ErrCredentialNotFound when no non-blank token is stored.
func (s *Store) Get(ctx context.Context) (string, error) {
	value, err := s.secrets.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", domain.ErrCredentialNotFound
		}
		return "", fmt.Errorf("load credential: %w", err)
	}

	token := strings.TrimSpace(value)
	if token == "" {
		return "", domain.ErrCredentialNotFound
	}
	return token, nil
}

func (s *Store) Set(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrEmptyCredential
	}

	if err := s.secrets.Put(ctx, s.key, token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.secrets.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

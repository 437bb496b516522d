package ports

import "context"

// CredentialStore holds the single access token of this installation.
// Get returns domain.ErrCredentialNotFound when nothing is stored.
type CredentialStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

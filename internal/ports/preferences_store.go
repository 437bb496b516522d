package ports

import "context"

// PreferencesStore persists display toggles. Unknown or unset keys read as true.
type PreferencesStore interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

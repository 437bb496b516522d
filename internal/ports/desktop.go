package ports

import "context"

type Autostart interface {
	Enable(ctx context.Context) error
	Disable(ctx context.Context) error
	IsEnabled(ctx context.Context) (bool, error)
}

type Notifier interface {
	Notify(title, message string) error
}

type URLOpener interface {
	OpenURL(url string) error
}

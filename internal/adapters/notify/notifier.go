package notify

import (
	"github.com/gen2brain/beeep"

	"github.com/bnema/copilot-usage/internal/ports"
)

// Notifier posts desktop notifications.
type Notifier struct {
	icon   string
	notify func(title, message string, icon any) error
}

var _ ports.Notifier = (*Notifier)(nil)

func NewNotifier(icon string) *Notifier {
	return &Notifier{icon: icon, notify: beeep.Notify}
}

func (n *Notifier) Notify(title, message string) error {
	return n.notify(title, message, n.icon)
}

// Discard is a Notifier that drops everything, used when notifications are
// turned off.
type Discard struct{}

var _ ports.Notifier = Discard{}

func (Discard) Notify(string, string) error { return nil }

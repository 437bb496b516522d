package browser

import (
	"errors"
	"io"

	clibrowser "github.com/cli/browser"

	"github.com/bnema/copilot-usage/internal/ports"
)

var ErrDisabled = errors.New("opening the browser is disabled")

// Opener launches URLs in the user's default browser.
type Opener struct {
	disabled bool
	open     func(url string) error
}

var _ ports.URLOpener = (*Opener)(nil)

// NewOpener returns an opener. When output is non-nil the launcher's own
// stdout and stderr go there instead of the terminal; this setting is
// process-wide.
func NewOpener(disabled bool, output io.Writer) *Opener {
	if output != nil {
		clibrowser.Stdout = output
		clibrowser.Stderr = output
	}
	return &Opener{disabled: disabled, open: clibrowser.OpenURL}
}

func (o *Opener) OpenURL(url string) error {
	if o.disabled {
		return ErrDisabled
	}
	return o.open(url)
}

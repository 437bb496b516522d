package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierForwardsToBackend(t *testing.T) {
	t.Parallel()

	var got []string
	notifier := &Notifier{icon: "copilot.png", notify: func(title, message string, icon any) error {
		got = append(got, title, message, icon.(string))
		return nil
	}}

	require.NoError(t, notifier.Notify("Copilot premium requests at 80%", "Used 240 of 300 premium requests."))
	assert.Equal(t, []string{"Copilot premium requests at 80%", "Used 240 of 300 premium requests.", "copilot.png"}, got)
}

func TestDiscardDropsNotifications(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Discard{}.Notify("title", "message"))
}

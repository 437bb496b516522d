package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenerOpensURL(t *testing.T) {
	t.Parallel()

	var opened []string
	opener := &Opener{open: func(url string) error {
		opened = append(opened, url)
		return nil
	}}

	require.NoError(t, opener.OpenURL("https://github.com/login/device"))
	assert.Equal(t, []string{"https://github.com/login/device"}, opened)
}

func TestOpenerDisabledNeverLaunches(t *testing.T) {
	t.Parallel()

	opener := &Opener{disabled: true, open: func(string) error {
		t.Error("browser must not be launched")
		return nil
	}}

	assert.ErrorIs(t, opener.OpenURL("https://github.com/login/device"), ErrDisabled)
}

func TestOpenerReturnsLaunchError(t *testing.T) {
	t.Parallel()

	opener := &Opener{open: func(string) error { return errors.New("xdg-open: not found") }}

	assert.EqualError(t, opener.OpenURL("https://github.com/login/device"), "xdg-open: not found")
}

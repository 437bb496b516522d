package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	filestore "github.com/bnema/copilot-usage/internal/adapters/secrets/file"
	"github.com/bnema/copilot-usage/internal/domain"
	portmocks "github.com/bnema/copilot-usage/internal/ports/mocks"
)

func TestStoreRoundTripOverFileSecrets(t *testing.T) {
	t.Parallel()

	store := NewStore(filestore.NewStore(t.TempDir()), "")
	ctx := context.Background()

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, domain.ErrCredentialNotFound)

	require.NoError(t, store.Set(ctx, "  gho_abc \n"))
	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gho_abc", token)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestStoreSetRejectsBlankToken(t *testing.T) {
	t.Parallel()

	secrets := portmocks.NewMockSecretStore(t)
	store := NewStore(secrets, "")

	assert.ErrorIs(t, store.Set(context.Background(), " \t"), domain.ErrEmptyCredential)
}

func TestStoreGetTreatsBlankSecretAsMissing(t *testing.T) {
	t.Parallel()

	secrets := portmocks.NewMockSecretStore(t)
	secrets.EXPECT().Get(mock.Anything, DefaultKey).Return("   ", nil).Once()

	_, err := NewStore(secrets, "").Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}

func TestStoreWrapsBackendErrors(t *testing.T) {
	t.Parallel()

	secrets := portmocks.NewMockSecretStore(t)
	secrets.EXPECT().Get(mock.Anything, "custom/key").Return("", errors.New("keychain locked")).Once()
	secrets.EXPECT().Put(mock.Anything, "custom/key", "gho_abc").Return(errors.New("keychain locked")).Once()
	secrets.EXPECT().Delete(mock.Anything, "custom/key").Return(errors.New("keychain locked")).Once()

	store := NewStore(secrets, "custom/key")

	_, err := store.Get(context.Background())
	assert.ErrorContains(t, err, "load credential: keychain locked")
	assert.NotErrorIs(t, err, domain.ErrCredentialNotFound)
	assert.ErrorContains(t, store.Set(context.Background(), "gho_abc"), "save credential")
	assert.ErrorContains(t, store.Clear(context.Background()), "clear credential")
}

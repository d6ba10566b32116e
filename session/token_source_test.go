package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
)

func TestManager_TokenSource(t *testing.T) {
	t.Run("anonymous session yields no token", func(t *testing.T) {
		f := setupManagerFixture(t)

		_, err := f.manager.TokenSource(context.Background()).Token()
		require.ErrorIs(t, err, dittoerrors.ErrNoSession)
	})

	t.Run("valid access token is returned as-is", func(t *testing.T) {
		f := setupManagerFixture(t)
		_, err := f.manager.Login(context.Background(), "jane@example.com", "password123")
		require.NoError(t, err)

		token, err := f.manager.TokenSource(context.Background()).Token()
		require.NoError(t, err)
		require.Equal(t, f.backend.accessToken, token.AccessToken)
		require.Equal(t, "Bearer", token.TokenType)
		require.Zero(t, f.backend.refreshCalls)
	})

	t.Run("expired access token triggers a refresh", func(t *testing.T) {
		f := setupManagerFixture(t)

		// Log in while the backend is minting already-expired access tokens,
		// then switch it to fresh ones so the refresh is observable.
		f.backend.mu.Lock()
		f.backend.accessToken = signedToken(t, time.Now().Add(-time.Minute))
		f.backend.mu.Unlock()
		_, err := f.manager.Login(context.Background(), "jane@example.com", "password123")
		require.NoError(t, err)

		fresh := signedToken(t, time.Now().Add(time.Hour))
		f.backend.mu.Lock()
		f.backend.accessToken = fresh
		f.backend.mu.Unlock()

		token, err := f.manager.TokenSource(context.Background()).Token()
		require.NoError(t, err)
		require.Equal(t, fresh, token.AccessToken)
		require.Equal(t, 1, f.backend.refreshCalls)
	})
}

package session

import (
	"context"

	"golang.org/x/oauth2"

	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
)

// TokenSource adapts the manager to oauth2.TokenSource so the session can be
// plugged into libraries that speak oauth2 (e.g. oauth2.NewClient).
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, manager: m}
}

type managerTokenSource struct {
	ctx     context.Context
	manager *Manager
}

var _ oauth2.TokenSource = (*managerTokenSource)(nil)

func (ts *managerTokenSource) Token() (*oauth2.Token, error) {
	access := ts.manager.AccessToken()
	if access == "" {
		return nil, dittoerrors.ErrNoSession
	}

	if IsTokenExpired(access) {
		refreshed, err := ts.manager.RefreshToken(ts.ctx)
		if err != nil {
			return nil, err
		}
		access = refreshed
	}

	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}

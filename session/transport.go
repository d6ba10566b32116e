package session

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Transport is an http.RoundTripper that attaches the manager's current
// access token to every request and, on a 401 response, refreshes the pair
// and retries the original request exactly once with the new token. A second
// 401 is returned to the caller as-is.
//
// The token is read from the manager per request rather than held in a
// shared default header, so concurrent logins and refreshes never race on
// transport state.
type Transport struct {
	manager *Manager
	base    http.RoundTripper
}

var _ http.RoundTripper = (*Transport)(nil)

// NewTransport wraps base (http.DefaultTransport when nil) with bearer
// injection and the 401-refresh-retry behaviour.
func NewTransport(manager *Manager, base http.RoundTripper) (*Transport, error) {
	if manager == nil {
		return nil, errors.New("[NewTransport] manager is required")
	}
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{manager: manager, base: base}, nil
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(t.authorize(req, t.manager.AccessToken()))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// Requests with a one-shot body cannot be replayed.
	if req.Body != nil && req.GetBody == nil {
		return resp, nil
	}

	newToken, refreshErr := t.manager.RefreshToken(req.Context())
	if refreshErr != nil || newToken == "" {
		return resp, nil
	}

	// The retry replaces the original response.
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()

	retry := t.authorize(req, newToken)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, errors.Wrap(err, "[Transport.RoundTrip] replay request body")
		}
		retry.Body = body
	}

	return t.base.RoundTrip(retry)
}

// authorize returns a clone of req carrying the bearer token. The original
// request is never mutated, per the RoundTripper contract.
func (t *Transport) authorize(req *http.Request, token string) *http.Request {
	cloned := req.Clone(req.Context())
	if token != "" {
		cloned.Header.Set("Authorization", "Bearer "+token)
	}
	return cloned
}

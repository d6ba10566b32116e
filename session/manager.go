package session

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dittohq/ditto-go/api"
	dittoerrors "github.com/dittohq/ditto-go/internal/errors"
)

// Manager owns the access/refresh token lifecycle: it authenticates against
// the Ditto backend, persists the token pair, hands the current access token
// to the Transport, and refreshes transparently when it expires.
//
// States: anonymous -> authenticating -> authenticated -> refreshing ->
// authenticated, or back to anonymous on logout / irrecoverable refresh
// failure.
type Manager struct {
	baseURL    string
	store      Store
	httpClient *http.Client
	logger     zerolog.Logger
	onLogout   func()

	lock sync.RWMutex
	pair *TokenPair
	user *User

	refreshLock sync.Mutex
	inflight    *refreshCall
}

// refreshCall is a single in-flight refresh shared by every caller that hits
// a 401 while it runs.
type refreshCall struct {
	done  chan struct{}
	token string
	err   error
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithHTTPClient sets the client used for the auth endpoints themselves.
// These requests carry no bearer token, so it must not be the Transport-wrapped
// client.
func WithHTTPClient(c *http.Client) ManagerOption {
	return func(m *Manager) {
		m.httpClient = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithOnLogout registers a callback invoked after the session is torn down,
// e.g. to send the user back to a login screen.
func WithOnLogout(fn func()) ManagerOption {
	return func(m *Manager) {
		m.onLogout = fn
	}
}

// NewManager creates a session manager talking to the backend at baseURL and
// persisting tokens in store.
func NewManager(baseURL string, store Store, options ...ManagerOption) (*Manager, error) {
	if baseURL == "" {
		return nil, errors.New("[NewManager] baseURL is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] store is required")
	}

	m := &Manager{
		baseURL:    baseURL,
		store:      store,
		httpClient: http.DefaultClient,
		logger:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Login exchanges credentials for a token pair, persists it, and fetches the
// user profile. A failed profile fetch is a failed login: the session is torn
// down and the error returned.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	pair, err := m.postAuth(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, pair)
}

// Register creates an account and establishes a session, exactly as Login
// does after its credential exchange.
func (m *Manager) Register(ctx context.Context, name, email, password string) (*User, error) {
	pair, err := m.postAuth(ctx, "/api/users", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, pair)
}

// Restore rebuilds a session from the persisted token pair, refreshing first
// when the access token has expired. Returns ErrNoSession when nothing is
// stored.
func (m *Manager) Restore(ctx context.Context) (*User, error) {
	pair, err := m.store.Load()
	if err != nil {
		return nil, err
	}

	m.setPair(pair)

	if IsTokenExpired(pair.AccessToken) {
		if _, err := m.RefreshToken(ctx); err != nil {
			return nil, err
		}
	}

	user, err := m.fetchMe(ctx)
	if err != nil {
		m.teardown()
		return nil, errors.Wrap(err, "[Restore] fetch profile")
	}

	m.lock.Lock()
	m.user = user
	m.lock.Unlock()
	return user, nil
}

// RefreshToken exchanges the stored refresh token for a new pair and returns
// the new access token. A missing or already-expired refresh token logs the
// session out without a network call; so does any failure of the exchange
// itself. Concurrent callers share a single in-flight refresh.
func (m *Manager) RefreshToken(ctx context.Context) (string, error) {
	m.refreshLock.Lock()
	if call := m.inflight; call != nil {
		m.refreshLock.Unlock()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	m.inflight = call
	m.refreshLock.Unlock()

	call.token, call.err = m.refresh(ctx)

	m.refreshLock.Lock()
	m.inflight = nil
	m.refreshLock.Unlock()
	close(call.done)

	return call.token, call.err
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	refreshToken := m.currentRefreshToken()
	if refreshToken == "" {
		if pair, err := m.store.Load(); err == nil {
			// Install the loaded pair so the manager is not token-less while
			// the exchange is in flight.
			m.lock.Lock()
			m.pair = pair
			m.lock.Unlock()
			refreshToken = pair.RefreshToken
		}
	}

	if refreshToken == "" || IsTokenExpired(refreshToken) {
		m.teardown()
		return "", dittoerrors.ErrRefreshTokenExpired
	}

	pair, err := m.postAuth(ctx, "/api/refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		// No distinction between a rejected token and an unreachable server:
		// either way the session cannot continue.
		m.logger.Warn().Err(err).Msg("token refresh failed, logging out")
		m.teardown()
		return "", errors.Wrap(dittoerrors.ErrRefreshFailed, err.Error())
	}

	m.setPair(pair)
	return pair.AccessToken, nil
}

// Logout clears the persisted pair, the in-memory session, and notifies the
// OnLogout callback.
func (m *Manager) Logout() error {
	return m.teardown()
}

// AccessToken returns the current access token, or "" when anonymous.
func (m *Manager) AccessToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.pair == nil {
		return ""
	}
	return m.pair.AccessToken
}

// CurrentUser returns the profile fetched at login, or nil when anonymous.
func (m *Manager) CurrentUser() *User {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.user
}

func (m *Manager) currentRefreshToken() string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.pair == nil {
		return ""
	}
	return m.pair.RefreshToken
}

func (m *Manager) setPair(pair *TokenPair) {
	m.lock.Lock()
	m.pair = pair
	m.lock.Unlock()

	if err := m.store.Save(pair); err != nil {
		m.logger.Error().Err(err).Msg("failed to persist token pair")
	}
}

func (m *Manager) establish(ctx context.Context, pair *TokenPair) (*User, error) {
	m.setPair(pair)

	user, err := m.fetchMe(ctx)
	if err != nil {
		m.teardown()
		return nil, errors.Wrap(err, "[establish] fetch profile")
	}

	m.lock.Lock()
	m.user = user
	m.lock.Unlock()
	return user, nil
}

func (m *Manager) teardown() error {
	m.lock.Lock()
	m.pair = nil
	m.user = nil
	m.lock.Unlock()

	err := m.store.Clear()
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to clear token store")
	}

	if m.onLogout != nil {
		m.onLogout()
	}
	return err
}

// postAuth posts an auth request and decodes the returned token pair.
func (m *Manager) postAuth(ctx context.Context, path string, body map[string]string) (*TokenPair, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "[postAuth] marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "[postAuth] create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[postAuth] POST %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, api.DecodeError(resp)
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, errors.Wrap(err, "[postAuth] decode token pair")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, errors.New("[postAuth] incomplete token pair in response")
	}
	return &pair, nil
}

func (m *Manager) fetchMe(ctx context.Context) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/api/me", nil)
	if err != nil {
		return nil, errors.Wrap(err, "[fetchMe] create request")
	}
	req.Header.Set("Authorization", "Bearer "+m.AccessToken())

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[fetchMe] GET /api/me")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, api.DecodeError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, errors.Wrap(err, "[fetchMe] decode profile")
	}
	return &user, nil
}

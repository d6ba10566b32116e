package session

// TokenPair is the credential pair issued by the Ditto auth endpoints: a
// short-lived access token (JWT) and a longer-lived refresh token used to
// obtain a new pair without re-authenticating.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// User is the authenticated user's profile as returned by GET /api/me.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

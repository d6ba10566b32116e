package session

// Store persists a token pair across program runs. Implementations must be
// safe for concurrent use: the refresh path and the initial load can race.
type Store interface {
	// Load returns the stored token pair, or errors.ErrNoSession when nothing
	// has been stored yet.
	Load() (*TokenPair, error)

	// Save replaces the stored token pair.
	Save(pair *TokenPair) error

	// Clear removes any stored token pair. Clearing an empty store is not an
	// error.
	Clear() error
}

package config

import (
	"os"
	"path/filepath"
)

type SessionConfig interface {
	GetCredentialsFile() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetCredentialsFile returns the path where the token pair is persisted.
// Defaults to ~/.config/ditto/credentials.
func (Session) GetCredentialsFile() string {
	if path := GetEnv("DITTO_CREDENTIALS_FILE", ""); path != "" {
		return path
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".ditto-credentials")
	}
	return filepath.Join(configDir, "ditto", "credentials")
}

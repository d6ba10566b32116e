package config

import (
	"os"
	"strconv"
	"time"
)

const (
	apiURLEnvVar  = "DITTO_API_URL"
	appNameVar    = "DITTO_APP_NAME"
	timeoutEnvVar = "DITTO_TIMEOUT_SECONDS"
)

type EnvConfig interface {
	GetAPIBaseURL() string
	GetAppName() string
	GetRequestTimeout() time.Duration
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLEnvVar, "http://localhost:8082")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Ditto")
}

func (EnvVars) GetRequestTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(timeoutEnvVar, "30"))
	if err != nil || seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

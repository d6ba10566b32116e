package config

import (
	"strconv"
	"time"
)

type AutoSaveConfig interface {
	GetDebounceInterval() time.Duration
}

type AutoSave struct{}

var _ AutoSaveConfig = AutoSave{}

func (AutoSave) GetDebounceInterval() time.Duration {
	ms, err := strconv.Atoi(GetEnv("DITTO_DEBOUNCE_MS", "30000"))
	if err != nil || ms <= 0 {
		ms = 30000 // Matches the editor auto-save default
	}
	return time.Duration(ms) * time.Millisecond
}

package config

type Config interface {
	EnvConfig
	SessionConfig
	AutoSaveConfig
	UploadConfig
}

type mainConfig struct {
	EnvVars
	Session
	AutoSave
	Upload
}

func New() Config {
	return mainConfig{}
}

package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrMissingAPIKey   = goerr.New("API key is required")
	ErrInvalidBackend  = goerr.New("invalid repository backend")
	ErrDuplicateSynKey = goerr.New("duplicate synonym key")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	FieldKey      = "field"
	BackendKey    = "backend"
)

package config

import "strings"

// Environment variables that override file settings.
const (
	EnvProvider = "TRIAGE_PROVIDER"
	EnvModel    = "TRIAGE_MODEL"
	EnvEndpoint = "TRIAGE_ENDPOINT"
	EnvLogLevel = "TRIAGE_LOG_LEVEL"
)

// ApplyEnv overrides settings from environment variables. lookup is usually
// os.LookupEnv. Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	set(EnvProvider, &c.Provider)
	set(EnvModel, &c.Model)
	set(EnvEndpoint, &c.Endpoint)
	set(EnvLogLevel, &c.LogLevel)
}

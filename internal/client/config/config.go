package config

import "time"

// Config holds runtime settings for the Maya CLI.
//
// Fields:
//   - ServerURL: base URL of the backend HTTP API.
//   - SessionDBPath: location of the local SQLite session database. Relative
//     paths are resolved by the CLI under the user config directory.
//   - OnlineCheckInterval: how often the client probes server reachability.
//
// Units: OnlineCheckInterval is a time.Duration (e.g., 30*time.Second).
type Config struct {
	ServerURL           string
	SessionDBPath       string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000"
	c.SessionDBPath = "session.db"
	c.OnlineCheckInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

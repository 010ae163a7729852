// Package config loads the CLI's runtime configuration. Sources overlay in
// order: defaults, a .env file / environment variables, a JSON file, then
// command-line flags. Later sources win.
package config

// Config holds runtime settings for the studio CLI.
//
// Fields:
//   - DatabasePath: location of the local SQLite library.
//   - GenAIAPIKey: default generation API key; the developer login and the
//     user profile can override it per session.
//   - GenAIBaseURL: alternative generation API host (self-hosted gateways).
type Config struct {
	DatabasePath string
	GenAIAPIKey  string
	GenAIBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "studio.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

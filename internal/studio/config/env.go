package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Environment variables recognized by the CLI.
const (
	EnvDatabasePath = "NEBULA_DATABASE_PATH"
	EnvGenAIAPIKey  = "NEBULA_API_KEY"
	EnvGenAIBaseURL = "NEBULA_GENAI_URL"
)

// parseEnv overlays Config with values from a .env file in the working
// directory (if any) and the process environment. A missing .env file is
// not an error; real environment variables always win over the file.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(EnvGenAIAPIKey); v != "" {
		cfg.GenAIAPIKey = v
	}
	if v := os.Getenv(EnvGenAIBaseURL); v != "" {
		cfg.GenAIBaseURL = v
	}
}

package config

import (
	"encoding/json"
	"os"

	"github.com/ecank/nebula/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath string `json:"database_path"`
	GenAIAPIKey  string `json:"genai_api_key"`
	GenAIBaseURL string `json:"genai_base_url"`
}

// parseJson overlays Config with values from the JSON file given via the
// -c/-config flags. Absent fields leave the current value in place. Read or
// unmarshal errors panic; the file was explicitly requested, so a silent
// fallback would hide a typo.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.GenAIAPIKey != "" {
		cfg.GenAIAPIKey = jc.GenAIAPIKey
	}
	if jc.GenAIBaseURL != "" {
		cfg.GenAIBaseURL = jc.GenAIBaseURL
	}
}

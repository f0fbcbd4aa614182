package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
	"github.com/dmitrijs2005/sessionkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI configuration file.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with the keys present in the file named by
// -c/-config. An unreadable or malformed file panics.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

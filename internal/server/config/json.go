package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
	"github.com/dmitrijs2005/sessionkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file.
// Durations go through timex.Duration so both "5m" and integer nanoseconds
// are accepted. Only keys present in the file override earlier layers.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDriver               string         `json:"database_driver"`
	DatabaseDSN                  string         `json:"database_dsn"`
	DBMaxOpenConns               int            `json:"db_max_open_conns"`
	DBMaxIdleConns               int            `json:"db_max_idle_conns"`
	DBConnMaxLifetime            timex.Duration `json:"db_conn_max_lifetime"`
	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CORSAllowedOrigin            string         `json:"cors_allowed_origin"`
	CookieSecure                 *bool          `json:"cookie_secure"`
	GinMode                      string         `json:"gin_mode"`
	SweepInterval                timex.Duration `json:"sweep_interval"`
	BcryptCost                   int            `json:"bcrypt_cost"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// A missing or malformed file is a startup error and panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	setString(&config.CORSAllowedOrigin, c.CORSAllowedOrigin)
	setString(&config.GinMode, c.GinMode)

	if c.DBMaxOpenConns > 0 {
		config.DBMaxOpenConns = c.DBMaxOpenConns
	}
	if c.DBMaxIdleConns > 0 {
		config.DBMaxIdleConns = c.DBMaxIdleConns
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.DBConnMaxLifetime.Duration > 0 {
		config.DBConnMaxLifetime = c.DBConnMaxLifetime.Duration
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.SweepInterval.Duration > 0 {
		config.SweepInterval = c.SweepInterval.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFiles are loaded into the process environment before it is read.
// Variables that are already set win over file contents.
var envFiles = []string{".env"}

// parseEnv overlays Config with environment variables. Unparsable numeric,
// boolean or duration values are ignored and the previous value is kept.
func parseEnv(c *Config) {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	envString("HTTP_ADDR", &c.EndpointAddrHTTP)
	envString("DATABASE_DRIVER", &c.DatabaseDriver)
	envString("DATABASE_DSN", &c.DatabaseDSN)
	envInt("DB_MAX_OPEN_CONNS", &c.DBMaxOpenConns)
	envInt("DB_MAX_IDLE_CONNS", &c.DBMaxIdleConns)
	envDuration("DB_CONN_MAX_LIFETIME", &c.DBConnMaxLifetime)
	envString("ACCESS_TOKEN_SECRET", &c.AccessTokenSecret)
	envString("REFRESH_TOKEN_SECRET", &c.RefreshTokenSecret)
	envDuration("ACCESS_TOKEN_TTL", &c.AccessTokenValidityDuration)
	envDuration("REFRESH_TOKEN_TTL", &c.RefreshTokenValidityDuration)
	envString("CORS_ALLOWED_ORIGIN", &c.CORSAllowedOrigin)
	envBool("COOKIE_SECURE", &c.CookieSecure)
	envString("GIN_MODE", &c.GinMode)
	envDuration("SWEEP_INTERVAL", &c.SweepInterval)
	envInt("BCRYPT_COST", &c.BcryptCost)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

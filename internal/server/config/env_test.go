package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverridesDefaults(t *testing.T) {
	origFiles := envFiles
	t.Cleanup(func() { envFiles = origFiles })
	envFiles = nil

	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file:test.db")
	t.Setenv("ACCESS_TOKEN_SECRET", "env-access")
	t.Setenv("REFRESH_TOKEN_SECRET", "env-refresh")
	t.Setenv("ACCESS_TOKEN_TTL", "30s")
	t.Setenv("REFRESH_TOKEN_TTL", "2h")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("SWEEP_INTERVAL", "10m")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")

	c := validConfig()
	parseEnv(c)

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, "file:test.db", c.DatabaseDSN)
	assert.Equal(t, "env-access", c.AccessTokenSecret)
	assert.Equal(t, "env-refresh", c.RefreshTokenSecret)
	assert.Equal(t, 30*time.Second, c.AccessTokenValidityDuration)
	assert.Equal(t, 2*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, "https://app.example.com", c.CORSAllowedOrigin)
	assert.False(t, c.CookieSecure)
	assert.Equal(t, 10*time.Minute, c.SweepInterval)
	assert.Equal(t, 42, c.DBMaxOpenConns)
}

func TestParseEnv_IgnoresUnparsableValues(t *testing.T) {
	origFiles := envFiles
	t.Cleanup(func() { envFiles = origFiles })
	envFiles = nil

	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	t.Setenv("COOKIE_SECURE", "maybe")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	c := validConfig()
	parseEnv(c)

	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, 10, c.DBMaxOpenConns)
}

func TestParseEnv_LoadsDotEnvFile(t *testing.T) {
	origFiles := envFiles
	t.Cleanup(func() { envFiles = origFiles })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REFRESH_TOKEN_SECRET=from-dotenv\n"), 0o600))
	envFiles = []string{path}

	require.NoError(t, os.Unsetenv("REFRESH_TOKEN_SECRET"))
	t.Cleanup(func() { _ = os.Unsetenv("REFRESH_TOKEN_SECRET") })

	c := validConfig()
	parseEnv(c)

	assert.Equal(t, "from-dotenv", c.RefreshTokenSecret)
}

func TestParseEnv_ProcessEnvWinsOverDotEnv(t *testing.T) {
	origFiles := envFiles
	t.Cleanup(func() { envFiles = origFiles })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ACCESS_TOKEN_SECRET=from-dotenv\n"), 0o600))
	envFiles = []string{path}

	t.Setenv("ACCESS_TOKEN_SECRET", "from-process")

	c := validConfig()
	parseEnv(c)

	assert.Equal(t, "from-process", c.AccessTokenSecret)
}

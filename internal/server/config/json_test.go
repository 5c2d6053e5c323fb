package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	t.Run("loads from json", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_http": "www.example:9000",
			"database_dsn":       "postgres://db",
			"jwt_secret":         "my_secret_key",
			"jwt_token_audience": "aud",
			"jwt_token_issuer":   "iss",
			"jwt_ttl":            "1m",
			"jwt_refresh_ttl":    180,
			"s3_bucket":          "bucket",
			"login_rate_limit":   0,
		})

		cfg := &Config{LoginRateLimit: 20}
		require.NoError(t, parseJson(cfg, path))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.JWTSecret)
		assert.Equal(t, "aud", cfg.JWTAudience)
		assert.Equal(t, "iss", cfg.JWTIssuer)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenTTL)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenTTL)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, 0, cfg.LoginRateLimit)
	})

	t.Run("no path → no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "defaults:1234", AccessTokenTTL: 2 * time.Minute}
		require.NoError(t, parseJson(cfg, ""))

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenTTL)
	})

	t.Run("absent keys keep earlier values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"log_level": "warn"})

		cfg := &Config{S3Region: "eu-west-1", RefreshTokenTTL: time.Hour}
		require.NoError(t, parseJson(cfg, path))

		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "eu-west-1", cfg.S3Region)
		assert.Equal(t, time.Hour, cfg.RefreshTokenTTL)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		assert.Error(t, parseJson(&Config{}, bad))
	})

	t.Run("missing file → error", func(t *testing.T) {
		assert.Error(t, parseJson(&Config{}, filepath.Join(t.TempDir(), "nope.json")))
	})
}

func TestLoadConfig_JSONThenEnvironment(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"jwt_secret":         "file-secret",
		"jwt_token_audience": "file-aud",
		"jwt_token_issuer":   "file-iss",
		"jwt_ttl":            60,
		"jwt_refresh_ttl":    "2h",
	})

	env := map[string]string{EnvJWTAudience: "env-aud"}
	cfg, err := LoadConfig([]string{"-config", path}, envMap(env))
	require.NoError(t, err)

	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, "env-aud", cfg.JWTAudience)
	assert.Equal(t, time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 2*time.Hour, cfg.RefreshTokenTTL)
}

func TestLoadConfig_SubSecondTTLFromFile(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"jwt_secret":         "file-secret",
		"jwt_token_audience": "file-aud",
		"jwt_token_issuer":   "file-iss",
		"jwt_ttl":            "1500ms",
		"jwt_refresh_ttl":    "500ms",
	})

	cfg, err := LoadConfig([]string{"-c", path}, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.AccessTokenTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.RefreshTokenTTL)
}

func TestLoadConfig_TTLFlagOverridesFile(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"jwt_secret":         "file-secret",
		"jwt_token_audience": "file-aud",
		"jwt_token_issuer":   "file-iss",
		"jwt_ttl":            "1500ms",
		"jwt_refresh_ttl":    "500ms",
	})

	cfg, err := LoadConfig([]string{"-c", path, "-r", "90"}, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.AccessTokenTTL)
	assert.Equal(t, 90*time.Second, cfg.RefreshTokenTTL)
}

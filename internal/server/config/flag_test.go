package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:8080", "-grpc", ":6000", "-d", "db", "-l", "debug",
				"-s", "secret", "-audience", "aud", "-issuer", "iss", "-t", "60", "-r", "180",
				"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
				"-rl", "5",
			},
			expected: &Config{
				EndpointAddrHTTP: "127.0.0.1:8080",
				EndpointAddrGRPC: ":6000",
				DatabaseDSN:      "db",
				LogLevel:         "debug",
				JWTSecret:        "secret",
				JWTAudience:      "aud",
				JWTIssuer:        "iss",
				AccessTokenTTL:   1 * time.Minute,
				RefreshTokenTTL:  3 * time.Minute,
				S3RootUser:       "user",
				S3RootPassword:   "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
				LoginRateLimit:   5,
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "conf.json", "-x", "1", "-s", "k"},
			expected: &Config{JWTSecret: "k"},
		},
		{
			name:    "non numeric ttl",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsEarlierLayers(t *testing.T) {
	config := &Config{JWTSecret: "from-env", AccessTokenTTL: 2 * time.Minute, RefreshTokenTTL: 500 * time.Millisecond}

	require.NoError(t, parseFlags(config, []string{"-l", "warn"}))

	assert.Equal(t, "from-env", config.JWTSecret)
	assert.Equal(t, 2*time.Minute, config.AccessTokenTTL)
	assert.Equal(t, 500*time.Millisecond, config.RefreshTokenTTL)
}

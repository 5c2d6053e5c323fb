package config

import (
	"fmt"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvHTTPAddr       = "HTTP_ADDR"
	EnvGRPCAddr       = "GRPC_ADDR"
	EnvDatabaseDSN    = "DATABASE_DSN"
	EnvLogLevel       = "LOG_LEVEL"
	EnvJWTSecret      = "JWT_SECRET"
	EnvJWTAudience    = "JWT_TOKEN_AUDIENCE"
	EnvJWTIssuer      = "JWT_TOKEN_ISSUER"
	EnvJWTTTL         = "JWT_TTL"
	EnvJWTRefreshTTL  = "JWT_REFRESH_TTL"
	EnvS3RootUser     = "S3_ROOT_USER"
	EnvS3RootPassword = "S3_ROOT_PASSWORD"
	EnvS3Bucket       = "S3_BUCKET"
	EnvS3Region       = "S3_REGION"
	EnvS3BaseEndpoint = "S3_BASE_ENDPOINT"
	EnvLoginRateLimit = "LOGIN_RATE_LIMIT"
)

// parseEnv overlays every variable that is set and non-empty. Integer
// settings that fail to parse are reported instead of being ignored.
func parseEnv(c *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{EnvHTTPAddr, &c.EndpointAddrHTTP},
		{EnvGRPCAddr, &c.EndpointAddrGRPC},
		{EnvDatabaseDSN, &c.DatabaseDSN},
		{EnvLogLevel, &c.LogLevel},
		{EnvJWTSecret, &c.JWTSecret},
		{EnvJWTAudience, &c.JWTAudience},
		{EnvJWTIssuer, &c.JWTIssuer},
		{EnvS3RootUser, &c.S3RootUser},
		{EnvS3RootPassword, &c.S3RootPassword},
		{EnvS3Bucket, &c.S3Bucket},
		{EnvS3Region, &c.S3Region},
		{EnvS3BaseEndpoint, &c.S3BaseEndpoint},
	}
	for _, s := range strs {
		if v := getenv(s.name); v != "" {
			*s.dst = v
		}
	}

	if v := getenv(EnvJWTTTL); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJWTTTL, err)
		}
		c.AccessTokenTTL = time.Duration(secs) * time.Second
	}
	if v := getenv(EnvJWTRefreshTTL); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJWTRefreshTTL, err)
		}
		c.RefreshTokenTTL = time.Duration(secs) * time.Second
	}
	if v := getenv(EnvLoginRateLimit); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLoginRateLimit, err)
		}
		c.LoginRateLimit = n
	}
	return nil
}

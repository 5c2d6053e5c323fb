package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/noteshare/internal/timex"
)

// JsonConfig is the on-disk shape of the optional configuration file.
// Token lifetimes accept either duration strings ("15m") or integer seconds.
//
// This struct is an intermediate DTO used only for reading JSON files; only
// keys present in the file are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc"`
	DatabaseDSN      string          `json:"database_dsn"`
	LogLevel         string          `json:"log_level"`
	JWTSecret        string          `json:"jwt_secret"`
	JWTAudience      string          `json:"jwt_token_audience"`
	JWTIssuer        string          `json:"jwt_token_issuer"`
	AccessTokenTTL   *timex.Duration `json:"jwt_ttl"`
	RefreshTokenTTL  *timex.Duration `json:"jwt_refresh_ttl"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
	LoginRateLimit   *int            `json:"login_rate_limit"`
}

// parseJson loads configuration values from the JSON file at path into
// config. An empty path means there is nothing to load.
func parseJson(config *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.JWTSecret, c.JWTSecret)
	setIf(&config.JWTAudience, c.JWTAudience)
	setIf(&config.JWTIssuer, c.JWTIssuer)
	setIf(&config.S3RootUser, c.S3RootUser)
	setIf(&config.S3RootPassword, c.S3RootPassword)
	setIf(&config.S3Bucket, c.S3Bucket)
	setIf(&config.S3Region, c.S3Region)
	setIf(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.LoginRateLimit != nil {
		config.LoginRateLimit = *c.LoginRateLimit
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

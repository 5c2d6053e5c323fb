package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/noteshare/internal/flagx"
)

var knownFlags = []string{
	"-a", "-grpc", "-d", "-l",
	"-s", "-audience", "-issuer", "-t", "-r",
	"-u", "-p", "-b", "-g", "-e", "-rl",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string         HTTP bind address (e.g., ":3000")
//	-grpc string      gRPC health bind address (e.g., ":50051")
//	-d string         PostgreSQL DSN
//	-l string         log level
//	-s string         JWT HMAC secret
//	-audience string  JWT audience
//	-issuer string    JWT issuer
//	-t int            access token TTL, seconds
//	-r int            refresh token TTL, seconds
//	-u string         S3 root user
//	-p string         S3 root password
//	-b string         S3 bucket name
//	-g string         S3 region
//	-e string         S3 base endpoint
//	-rl int           login attempts per minute per client IP
//
// args are filtered with flagx.FilterArgs first so that flags owned by other
// components (-c/-config) do not cause parse errors.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret")
	fs.StringVar(&config.JWTAudience, "audience", config.JWTAudience, "JWT audience")
	fs.StringVar(&config.JWTIssuer, "issuer", config.JWTIssuer, "JWT issuer")
	accessTTL := fs.Int("t", int(config.AccessTokenTTL.Seconds()), "access token TTL (seconds)")
	refreshTTL := fs.Int("r", int(config.RefreshTokenTTL.Seconds()), "refresh token TTL (seconds)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.IntVar(&config.LoginRateLimit, "rl", config.LoginRateLimit, "login attempts per minute per client IP")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return err
	}

	// only explicit TTL flags override, so sub-second values from a config
	// file survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenTTL = time.Duration(*accessTTL) * time.Second
		case "r":
			config.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Second
		}
	})
	return nil
}

package config

import (
	"os"
	"strings"
	"time"
)

// parseEnv overlays Config fields from environment variables.
//
// Supported variables:
//
//	ADDRESS         HTTP bind address (e.g., ":3000")
//	DATABASE_DSN    PostgreSQL DSN
//	JWT_SECRET      token signing secret
//	TOKEN_VALIDITY  token lifetime as a Go duration ("720h")
//	ALLOWED_ORIGINS comma-separated CORS origin allowlist
//
// Invalid TOKEN_VALIDITY values are ignored so a bad environment cannot
// silently shorten token lifetimes to zero.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("ALLOWED_ORIGINS"); ok {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		config.AllowedOrigins = origins
	}
}

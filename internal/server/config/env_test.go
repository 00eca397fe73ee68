package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_OverlaysValues(t *testing.T) {
	t.Setenv("ADDRESS", ":4000")
	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("TOKEN_VALIDITY", "48h")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":4000", c.EndpointAddr)
	assert.Equal(t, "postgres://env", c.DatabaseDSN)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 48*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.AllowedOrigins)
}

func TestParseEnv_InvalidDurationKeepsDefault(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "soon")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, 30*24*time.Hour, c.TokenValidityDuration)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CLOCK_PORT", "")
	t.Setenv("CLOCK_DB", "")
	t.Setenv("CLOCK_ALLOWED_ORIGINS", "")
	t.Setenv("CLOCK_REGULAR_CAP_HOURS", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "clock.db", cfg.DBPath)
	assert.NotEmpty(t, cfg.AllowedOrigins)
	assert.Equal(t, 8.0, cfg.RegularCapHours)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CLOCK_PORT", "9999")
	t.Setenv("CLOCK_DB", ":memory:")
	t.Setenv("CLOCK_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CLOCK_REGULAR_CAP_HOURS", "10")

	cfg := Load()

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 10.0, cfg.RegularCapHours)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("CLOCK_PORT", "not-a-port")
	t.Setenv("CLOCK_REGULAR_CAP_HOURS", "-3")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8.0, cfg.RegularCapHours)
}

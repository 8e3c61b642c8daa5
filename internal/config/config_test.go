package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CATALOG_PATH", "CATALOG_RELOAD_INTERVAL", "MAX_EXHAUSTIVE_SUBSIDIES", "CORS_ORIGINS", "GENDER_POLICY", "TRACE_EXPORTER", "TRACE_SAMPLE_RATIO", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	Load()
	assert.Equal(t, "8080", Cfg.Port)
	assert.Equal(t, "data/subsidies-2026.json", Cfg.CatalogPath)
	assert.Zero(t, Cfg.CatalogReloadInterval)
	assert.Equal(t, 20, Cfg.MaxExhaustiveSubsidies)
	assert.Equal(t, []string{"*"}, Cfg.CORSOrigins)
	assert.Equal(t, "average", Cfg.GenderPolicy)
	assert.Empty(t, Cfg.TraceExporter)
	assert.Equal(t, "info", Cfg.LogLevel)
	assert.Equal(t, 1.0, Cfg.TraceSampleRatio)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_RELOAD_INTERVAL", "30s")
	t.Setenv("MAX_EXHAUSTIVE_SUBSIDIES", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("GZIP_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("TRACE_EXPORTER", "stdout")
	t.Setenv("TRACE_SAMPLE_RATIO", "0.25")
	Load()
	assert.Equal(t, "9090", Cfg.Port)
	assert.Equal(t, 30*time.Second, Cfg.CatalogReloadInterval)
	assert.Equal(t, 12, Cfg.MaxExhaustiveSubsidies)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, Cfg.CORSOrigins)
	assert.False(t, Cfg.GzipEnabled)
	assert.Equal(t, 30, Cfg.RateLimitRPS)
	assert.Equal(t, "stdout", Cfg.TraceExporter)
	assert.Equal(t, 0.25, Cfg.TraceSampleRatio)
}

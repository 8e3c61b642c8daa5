package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cfg is the global configuration loaded at startup.
var Cfg Config

// Config holds all application configuration.
type Config struct {
	// Server
	Port     string
	BaseURL  string
	LogLevel string

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string

	// Catalog
	CatalogPath           string
	CatalogReloadInterval time.Duration
	CatalogBackupDir      string

	// Engine
	MaxExhaustiveSubsidies int
	GenderPolicy           string

	// Rate limiter
	RateLimitRPS   int
	RateLimitBurst int

	// HTTP
	GzipEnabled bool
	CORSOrigins []string
	AdminAPIKey string

	// Report
	ReportFontPath string

	// Metrics
	MetricsEnabled bool

	// Tracing
	TraceExporter    string
	TraceSampleRatio float64
}

// Load reads .env (if present) and populates Cfg from environment variables.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables")
	}

	Cfg = Config{
		Port:     envOr("PORT", "8080"),
		BaseURL:  envOr("BASE_URL", "http://localhost:8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: envOr("SENTRY_ENVIRONMENT", "production"),
		SentryRelease:     envOr("SENTRY_RELEASE", "subsidyopt@2.0.0"),

		CatalogPath:           envOr("CATALOG_PATH", "data/subsidies-2026.json"),
		CatalogReloadInterval: envDuration("CATALOG_RELOAD_INTERVAL", 0),
		CatalogBackupDir:      envOr("CATALOG_BACKUP_DIR", "data/backup"),

		MaxExhaustiveSubsidies: envInt("MAX_EXHAUSTIVE_SUBSIDIES", 20),
		GenderPolicy:           envOr("GENDER_POLICY", "average"),

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 30),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 60),

		GzipEnabled: envBool("GZIP_ENABLED", true),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		ReportFontPath: os.Getenv("REPORT_FONT_PATH"),

		MetricsEnabled: envBool("METRICS_ENABLED", true),

		TraceExporter:    os.Getenv("TRACE_EXPORTER"),
		TraceSampleRatio: envFloat("TRACE_SAMPLE_RATIO", 1),
	}

	log.Printf("config: loaded (port=%s, catalog=%s, reload=%s, admin=%s)",
		Cfg.Port, Cfg.CatalogPath, Cfg.CatalogReloadInterval, maskKey(Cfg.AdminAPIKey))
}

func maskKey(k string) string {
	if k == "" {
		return "(disabled)"
	}
	return "(set)"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

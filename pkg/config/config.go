package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL      string
	GoogleMapsAPIKey string
	OpenAIAPIKey     string
	Port             string
	BasePath         string

	// Similarity engine settings
	SimilarityThreshold      float64 // pairs must score strictly above this
	AlertPollIntervalSeconds int     // dashboard alert re-scan cadence

	// Database performance settings
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime int // minutes
	DBConnMaxIdleTime int // minutes
	DBReadTimeout     time.Duration
	DBWriteTimeout    time.Duration

	// OpenAI triage settings
	OpenAIModel     string
	OpenAITimeout   time.Duration
	TriageEnabled   bool
	OpenAIMaxTokens int

	// Monitoring and logging settings
	LogLevel          string
	LogFormat         string // "json" or "text"
	LogFile           string
	EnableFileLogging bool

	// Health check settings
	HealthCheckPath string

	// Environment & profiling/metrics
	Env              string // development, staging, production
	ProfilingEnabled bool
	ProfilingPort    string // also used as admin port
	MetricsEnabled   bool
	MetricsPath      string

	ConfigReloadIntervalSeconds int
}

func Load() *Config {
	threshold, _ := strconv.ParseFloat(getEnv("SIMILARITY_THRESHOLD", "0.6"), 64)
	pollSec, _ := strconv.Atoi(getEnv("ALERT_POLL_INTERVAL_SECONDS", "30"))

	dbMaxOpenConns, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "50"))
	dbMaxIdleConns, _ := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "15"))
	dbConnMaxLifetime, _ := strconv.Atoi(getEnv("DB_CONN_MAX_LIFETIME_MINUTES", "10"))
	dbConnMaxIdleTime, _ := strconv.Atoi(getEnv("DB_CONN_MAX_IDLE_TIME_MINUTES", "5"))
	dbReadTO, _ := time.ParseDuration(getEnv("DB_READ_TIMEOUT", "8s"))
	dbWriteTO, _ := time.ParseDuration(getEnv("DB_WRITE_TIMEOUT", "6s"))

	enableFileLogging, _ := strconv.ParseBool(getEnv("ENABLE_FILE_LOGGING", "false"))

	env := strings.ToLower(getEnv("ENV", "development"))
	profilingDefault := env == "development" || env == "staging"
	profilingEnabled, _ := strconv.ParseBool(getEnv("PROFILING_ENABLED", strconv.FormatBool(profilingDefault)))
	metricsEnabled, _ := strconv.ParseBool(getEnv("METRICS_ENABLED", strconv.FormatBool(profilingDefault)))

	openAITimeoutSec, _ := strconv.Atoi(getEnv("OPENAI_REQUEST_TIMEOUT_SECONDS", "60"))
	openAIMaxTokens, _ := strconv.Atoi(getEnv("OPENAI_MAX_TOKENS", "300"))
	triageEnabled, _ := strconv.ParseBool(getEnv("TRIAGE_ENABLED", strconv.FormatBool(os.Getenv("OPENAI_API_KEY") != "")))

	reloadIntSec, _ := strconv.Atoi(getEnv("CONFIG_RELOAD_INTERVAL_SECONDS", "2"))

	return &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		GoogleMapsAPIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		Port:             getEnv("PORT", "8080"),
		BasePath:         getEnv("BASE_PATH", "/"),

		SimilarityThreshold:      threshold,
		AlertPollIntervalSeconds: pollSec,

		DBMaxOpenConns:    dbMaxOpenConns,
		DBMaxIdleConns:    dbMaxIdleConns,
		DBConnMaxLifetime: dbConnMaxLifetime,
		DBConnMaxIdleTime: dbConnMaxIdleTime,
		DBReadTimeout:     dbReadTO,
		DBWriteTimeout:    dbWriteTO,

		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout:   time.Duration(openAITimeoutSec) * time.Second,
		TriageEnabled:   triageEnabled,
		OpenAIMaxTokens: openAIMaxTokens,

		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		LogFile:           getEnv("LOG_FILE", "/var/log/business-registry/app.log"),
		EnableFileLogging: enableFileLogging,

		HealthCheckPath: getEnv("HEALTH_CHECK_PATH", "/health"),

		Env:              env,
		ProfilingEnabled: profilingEnabled,
		ProfilingPort:    getEnv("PROFILING_PORT", "6060"),
		MetricsEnabled:   metricsEnabled,
		MetricsPath:      getEnv("METRICS_PATH", "/metrics"),

		ConfigReloadIntervalSeconds: reloadIntSec,
	}
}

// Validate rejects settings the portal cannot run with. Called by the
// watcher before applying a reload.
func (c *Config) Validate() error {
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold >= 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD %v out of [0,1)", c.SimilarityThreshold)
	}
	if c.AlertPollIntervalSeconds < 1 {
		return fmt.Errorf("ALERT_POLL_INTERVAL_SECONDS %d must be >= 1", c.AlertPollIntervalSeconds)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amit-kumar9766/ipl-dashboard/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	DBURL string

	CORSAllowedOrigins []string

	ScrapeBaseURL             string
	ScrapeMatchesURL          string
	ScrapePointsTableURL      string
	ScrapeTimeout             time.Duration
	ScrapeMaxRetries          int
	ScrapeCircuitEnabled      bool
	ScrapeCircuitFailureCount int
	ScrapeCircuitOpenTimeout  time.Duration
	ScrapeWorkerPoolSize      int

	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	PollerEnabled          bool
	PollerInterval         time.Duration
	PollerFailureThreshold int

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	scrapeTimeout, err := getEnvAsDuration("SCRAPE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_TIMEOUT: %w", err)
	}
	scrapeMaxRetries, err := getEnvAsInt("SCRAPE_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_MAX_RETRIES: %w", err)
	}
	scrapeCircuitEnabled, err := strconv.ParseBool(getEnv("SCRAPE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CIRCUIT_ENABLED: %w", err)
	}
	scrapeCircuitFailures, err := getEnvAsInt("SCRAPE_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	scrapeCircuitOpenTimeout, err := getEnvAsDuration("SCRAPE_CIRCUIT_OPEN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	scrapeWorkers, err := getEnvAsInt("SCRAPE_WORKER_POOL_SIZE", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_WORKER_POOL_SIZE: %w", err)
	}

	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 3*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	cacheSweepInterval, err := getEnvAsDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_SWEEP_INTERVAL: %w", err)
	}

	pollerEnabled, err := strconv.ParseBool(getEnv("POLLER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLLER_ENABLED: %w", err)
	}
	pollerInterval, err := getEnvAsDuration("POLLER_INTERVAL", 3*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse POLLER_INTERVAL: %w", err)
	}
	pollerFailureThreshold, err := getEnvAsInt("POLLER_FAILURE_THRESHOLD", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse POLLER_FAILURE_THRESHOLD: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	serviceName := getEnv("SERVICE_NAME", "ipl-dashboard")

	return Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBURL: strings.TrimSpace(getEnv("DB_URL", "")),

		CORSAllowedOrigins: splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		ScrapeBaseURL:             getEnv("SCRAPE_BASE_URL", "https://www.iplt20.com"),
		ScrapeMatchesURL:          strings.TrimSpace(getEnv("SCRAPE_MATCHES_URL", "")),
		ScrapePointsTableURL:      strings.TrimSpace(getEnv("SCRAPE_POINTS_TABLE_URL", "")),
		ScrapeTimeout:             scrapeTimeout,
		ScrapeMaxRetries:          scrapeMaxRetries,
		ScrapeCircuitEnabled:      scrapeCircuitEnabled,
		ScrapeCircuitFailureCount: scrapeCircuitFailures,
		ScrapeCircuitOpenTimeout:  scrapeCircuitOpenTimeout,
		ScrapeWorkerPoolSize:      scrapeWorkers,

		CacheTTL:           cacheTTL,
		CacheSweepInterval: cacheSweepInterval,

		PollerEnabled:          pollerEnabled,
		PollerInterval:         pollerInterval,
		PollerFailureThreshold: pollerFailureThreshold,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),

		LogLevel: logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

func parseAppEnv(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case EnvDev:
		return EnvDev, nil
	case EnvStage:
		return EnvStage, nil
	case EnvProd:
		return EnvProd, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

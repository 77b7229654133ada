package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

// Config stores runtime configuration for the service and the CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	LogLevel           logging.Level
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	CacheTTL           time.Duration

	UpstreamBaseURL               string
	UpstreamTransport             string
	UpstreamTimeout               time.Duration
	UpstreamMaxAttempts           int
	UpstreamRetryBaseDelay        time.Duration
	UpstreamRatePerMinute         int
	UpstreamCircuitEnabled        bool
	UpstreamCircuitFailureCount   int
	UpstreamCircuitOpenTimeout    time.Duration
	UpstreamCircuitHalfOpenMaxReq int

	DefaultLeagueID     string
	WatchLeagueIDs      []string
	PollInterval        time.Duration
	LiveIdleTimeout     time.Duration
	PollWorkers         int
	HalftimeScorePolicy string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool
	UptraceMinLevel    logging.Level

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

const (
	HalftimeScoreComputed    = "computed"
	HalftimeScorePlaceholder = "placeholder"
)

// LoadDotEnv loads the first readable file of paths into the environment. Variables
// already set win over the file.
func LoadDotEnv(paths ...string) {
	for _, path := range paths {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", "20s")
	if err != nil {
		return Config{}, err
	}

	upstreamTransport := strings.ToLower(strings.TrimSpace(getEnv("UPSTREAM_TRANSPORT", "nethttp")))
	switch upstreamTransport {
	case "nethttp", "fasthttp":
	default:
		return Config{}, fmt.Errorf("invalid UPSTREAM_TRANSPORT %q: valid values are nethttp, fasthttp", upstreamTransport)
	}
	upstreamTimeout, err := getEnvAsDuration("UPSTREAM_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	upstreamMaxAttempts, err := getEnvAsInt("UPSTREAM_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_MAX_ATTEMPTS: %w", err)
	}
	if upstreamMaxAttempts < 1 {
		return Config{}, fmt.Errorf("UPSTREAM_MAX_ATTEMPTS must be >= 1")
	}
	upstreamRetryBaseDelay, err := getEnvAsDuration("UPSTREAM_RETRY_BASE_DELAY", "2s")
	if err != nil {
		return Config{}, err
	}
	upstreamRatePerMinute, err := getEnvAsInt("UPSTREAM_RATE_PER_MINUTE", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_RATE_PER_MINUTE: %w", err)
	}
	if upstreamRatePerMinute < 0 {
		return Config{}, fmt.Errorf("UPSTREAM_RATE_PER_MINUTE must be >= 0")
	}

	upstreamCircuitEnabled, err := strconv.ParseBool(getEnv("UPSTREAM_CIRCUIT_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_ENABLED: %w", err)
	}
	upstreamCircuitFailureCount, err := getEnvAsInt("UPSTREAM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if upstreamCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("UPSTREAM_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	upstreamCircuitOpenTimeout, err := getEnvAsDuration("UPSTREAM_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	upstreamCircuitHalfOpenMaxReq, err := getEnvAsInt("UPSTREAM_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPSTREAM_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if upstreamCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("UPSTREAM_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	defaultLeagueID := strings.TrimSpace(getEnv("DEFAULT_LEAGUE_ID", "4328"))
	if _, err := strconv.ParseUint(defaultLeagueID, 10, 64); err != nil {
		return Config{}, fmt.Errorf("DEFAULT_LEAGUE_ID must be numeric, got %q", defaultLeagueID)
	}
	watchLeagueIDs := splitCSV(getEnv("WATCH_LEAGUE_IDS", ""))
	for _, id := range watchLeagueIDs {
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			return Config{}, fmt.Errorf("WATCH_LEAGUE_IDS must contain numeric ids, got %q", id)
		}
	}
	pollInterval, err := getEnvAsDuration("POLL_INTERVAL", "20s")
	if err != nil {
		return Config{}, err
	}
	liveIdleTimeout, err := getEnvAsDuration("LIVE_IDLE_TIMEOUT", "5m")
	if err != nil {
		return Config{}, err
	}
	pollWorkers, err := getEnvAsInt("POLL_WORKERS", 16)
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_WORKERS: %w", err)
	}
	if pollWorkers < 1 {
		return Config{}, fmt.Errorf("POLL_WORKERS must be >= 1")
	}
	halftimePolicy := strings.ToLower(strings.TrimSpace(getEnv("TIMELINE_HALFTIME_SCORE", HalftimeScoreComputed)))
	switch halftimePolicy {
	case HalftimeScoreComputed, HalftimeScorePlaceholder:
	default:
		return Config{}, fmt.Errorf("invalid TIMELINE_HALFTIME_SCORE %q: valid values are %s, %s",
			halftimePolicy, HalftimeScoreComputed, HalftimeScorePlaceholder)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "matchday-api"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		LogLevel:           parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:     swaggerEnabled,
		CacheTTL:           cacheTTL,

		UpstreamBaseURL:               strings.TrimRight(strings.TrimSpace(getEnv("UPSTREAM_BASE_URL", "https://www.thesportsdb.com/api/v1/json/3")), "/"),
		UpstreamTransport:             upstreamTransport,
		UpstreamTimeout:               upstreamTimeout,
		UpstreamMaxAttempts:           upstreamMaxAttempts,
		UpstreamRetryBaseDelay:        upstreamRetryBaseDelay,
		UpstreamRatePerMinute:         upstreamRatePerMinute,
		UpstreamCircuitEnabled:        upstreamCircuitEnabled,
		UpstreamCircuitFailureCount:   upstreamCircuitFailureCount,
		UpstreamCircuitOpenTimeout:    upstreamCircuitOpenTimeout,
		UpstreamCircuitHalfOpenMaxReq: upstreamCircuitHalfOpenMaxReq,

		DefaultLeagueID:     defaultLeagueID,
		WatchLeagueIDs:      watchLeagueIDs,
		PollInterval:        pollInterval,
		LiveIdleTimeout:     liveIdleTimeout,
		PollWorkers:         pollWorkers,
		HalftimeScorePolicy: halftimePolicy,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,
		UptraceMinLevel:    parseLogLevel(getEnv("UPTRACE_LOG_MIN_LEVEL", "warn")),

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.UpstreamBaseURL == "" {
		return Config{}, fmt.Errorf("UPSTREAM_BASE_URL cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
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

// getEnvAsDuration parses a positive duration.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

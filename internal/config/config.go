package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/riskibarqy/tennis-history/internal/platform/resilience"
)

const rankingDateLayout = "2006-01-02"

// ProviderConfig tunes the HTTP client of one external data provider.
type ProviderConfig struct {
	BaseURL    string        `validate:"omitempty,url"`
	Timeout    time.Duration `validate:"gt=0"`
	MaxRetries int           `validate:"gte=0"`
	RetryDelay time.Duration `validate:"gt=0"`
	CacheTTL   time.Duration `validate:"gte=0"`
	Breaker    resilience.BreakerConfig
}

// Config stores runtime configuration for the builder commands.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string
	LogLevel       logging.Level

	DataDir     string `validate:"required"`
	RankingFile string `validate:"required"`

	NumPrevious        int           `validate:"gt=0"`
	SeasonYears        []int         `validate:"min=1,dive,gte=2000"`
	FreshStart         bool          `validate:"-"`
	RefreshEventIDs    bool          `validate:"-"`
	RankTotalSlots     int           `validate:"gt=0"`
	FuzzyThreshold     float64       `validate:"gte=0,lte=100"`
	BirthDateTolerance time.Duration `validate:"gte=0"`
	HistoryMaxPages    int           `validate:"gt=0"`

	SofaScore ProviderConfig
	MatchStat ProviderConfig

	RankingMinDate      time.Time
	RankingPagesPerDate int `validate:"gt=0"`
	RankingWorkers      int `validate:"gt=0"`

	ExportDBEnabled               bool   `validate:"-"`
	ExportDBURL                   string `validate:"required_if=ExportDBEnabled true"`
	ExportDBDisablePreparedBinary bool   `validate:"-"`
	ExportRunID                   string `validate:"required"`

	MetricsAddr  string
	PprofEnabled bool `validate:"-"`

	UptraceEnabled             bool   `validate:"-"`
	UptraceDSN                 string `validate:"required_if=UptraceEnabled true"`
	PyroscopeEnabled           bool   `validate:"-"`
	PyroscopeServerAddress     string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration `validate:"gt=0"`
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	dataDir := strings.TrimSpace(getEnv("DATA_DIR", "./data"))

	numPrevious, err := getEnvAsInt("NUM_PREVIOUS", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse NUM_PREVIOUS: %w", err)
	}
	if numPrevious <= 0 {
		return Config{}, fmt.Errorf("NUM_PREVIOUS must be > 0")
	}

	seasonYears, err := parseIntList(getEnv("SEASON_YEARS", "2021,2022,2023,2024"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_YEARS: %w", err)
	}

	freshStart, err := strconv.ParseBool(getEnv("FRESH_START", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FRESH_START: %w", err)
	}
	refreshEventIDs, err := strconv.ParseBool(getEnv("REFRESH_EVENT_IDS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_EVENT_IDS: %w", err)
	}

	totalSlots, err := getEnvAsInt("RANK_TOTAL_SLOTS", 900)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANK_TOTAL_SLOTS: %w", err)
	}

	fuzzyThreshold, err := strconv.ParseFloat(getEnv("FUZZY_THRESHOLD", "45"), 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse FUZZY_THRESHOLD: %w", err)
	}

	birthDateTolerance, err := time.ParseDuration(getEnv("BIRTHDATE_TOLERANCE", "72h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BIRTHDATE_TOLERANCE: %w", err)
	}

	historyMaxPages, err := getEnvAsInt("HISTORY_MAX_PAGES", 40)
	if err != nil {
		return Config{}, fmt.Errorf("parse HISTORY_MAX_PAGES: %w", err)
	}

	sofaScore, err := loadProvider("SOFASCORE", 4)
	if err != nil {
		return Config{}, err
	}
	matchStat, err := loadProvider("MATCHSTAT", 3)
	if err != nil {
		return Config{}, err
	}

	rankingMinDate, err := time.Parse(rankingDateLayout, getEnv("RANKING_MIN_DATE", "2009-01-12"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKING_MIN_DATE: %w", err)
	}
	rankingPages, err := getEnvAsInt("RANKING_PAGES_PER_DATE", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKING_PAGES_PER_DATE: %w", err)
	}
	rankingWorkers, err := getEnvAsInt("RANKING_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RANKING_WORKERS: %w", err)
	}

	exportEnabled, err := strconv.ParseBool(getEnv("EXPORT_DB_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EXPORT_DB_ENABLED: %w", err)
	}
	exportDisablePreparedBinary, err := strconv.ParseBool(getEnv("EXPORT_DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EXPORT_DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   strings.TrimSpace(getEnv("APP_SERVICE_NAME", "tennis-history")),
		ServiceVersion:                strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:                      parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		DataDir:                       dataDir,
		RankingFile:                   strings.TrimSpace(getEnv("RANKING_FILE", filepath.Join(dataDir, "ranking", "ranking.csv"))),
		NumPrevious:                   numPrevious,
		SeasonYears:                   seasonYears,
		FreshStart:                    freshStart,
		RefreshEventIDs:               refreshEventIDs,
		RankTotalSlots:                totalSlots,
		FuzzyThreshold:                fuzzyThreshold,
		BirthDateTolerance:            birthDateTolerance,
		HistoryMaxPages:               historyMaxPages,
		SofaScore:                     sofaScore,
		MatchStat:                     matchStat,
		RankingMinDate:                rankingMinDate.UTC(),
		RankingPagesPerDate:           rankingPages,
		RankingWorkers:                rankingWorkers,
		ExportDBEnabled:               exportEnabled,
		ExportDBURL:                   strings.TrimSpace(getEnv("EXPORT_DB_URL", "")),
		ExportDBDisablePreparedBinary: exportDisablePreparedBinary,
		ExportRunID:                   strings.TrimSpace(getEnv("EXPORT_RUN_ID", "latest")),
		MetricsAddr:                   strings.TrimSpace(getEnv("METRICS_ADDR", "")),
		PprofEnabled:                  pprofEnabled,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadProvider(prefix string, defaultRetries int) (ProviderConfig, error) {
	key := func(name string) string { return prefix + "_" + name }

	timeout, err := time.ParseDuration(getEnv(key("TIMEOUT"), "30s"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("TIMEOUT"), err)
	}
	if timeout <= 0 {
		return ProviderConfig{}, fmt.Errorf("%s must be > 0", key("TIMEOUT"))
	}
	maxRetries, err := getEnvAsInt(key("MAX_RETRIES"), defaultRetries)
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("MAX_RETRIES"), err)
	}
	retryDelay, err := time.ParseDuration(getEnv(key("RETRY_DELAY"), "1s"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("RETRY_DELAY"), err)
	}
	cacheTTL, err := time.ParseDuration(getEnv(key("CACHE_TTL"), "30m"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("CACHE_TTL"), err)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv(key("CIRCUIT_ENABLED"), "true"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("CIRCUIT_ENABLED"), err)
	}
	circuitFailureCount, err := getEnvAsInt(key("CIRCUIT_FAILURE_COUNT"), 5)
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("CIRCUIT_FAILURE_COUNT"), err)
	}
	if circuitFailureCount < 1 {
		return ProviderConfig{}, fmt.Errorf("%s must be >= 1", key("CIRCUIT_FAILURE_COUNT"))
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv(key("CIRCUIT_OPEN_TIMEOUT"), "30s"))
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("CIRCUIT_OPEN_TIMEOUT"), err)
	}
	if circuitOpenTimeout <= 0 {
		return ProviderConfig{}, fmt.Errorf("%s must be > 0", key("CIRCUIT_OPEN_TIMEOUT"))
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt(key("CIRCUIT_HALF_OPEN_MAX_REQ"), 1)
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s: %w", key("CIRCUIT_HALF_OPEN_MAX_REQ"), err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return ProviderConfig{}, fmt.Errorf("%s must be >= 1", key("CIRCUIT_HALF_OPEN_MAX_REQ"))
	}

	return ProviderConfig{
		BaseURL:    strings.TrimSpace(getEnv(key("BASE_URL"), "")),
		Timeout:    timeout,
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		CacheTTL:   cacheTTL,
		Breaker: resilience.BreakerConfig{
			Enabled:          circuitEnabled,
			FailureThreshold: circuitFailureCount,
			OpenTimeout:      circuitOpenTimeout,
			HalfOpenMaxReq:   circuitHalfOpenMaxReq,
		},
	}, nil
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

func parseIntList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		value, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", item, err)
		}
		out = append(out, value)
	}
	return out, nil
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

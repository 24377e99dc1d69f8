package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	StoreDriverCSV    = "csv"
	StoreDriverSQLite = "sqlite"
	StoreDriverMySQL  = "mysql"

	WriteModeRewrite = "rewrite"
	WriteModeAppend  = "append"

	GeocoderPlaceholder = "placeholder"
	GeocoderMapbox      = "mapbox"
)

type Config struct {
	AppEnv   string
	APIPort  string
	LogLevel string
	LogFile  string

	// Record store
	StoreDriver    string
	StoreWriteMode string
	CSVPath        string
	DBDSN          string

	// Image store
	ImageDir    string
	MaxUploadMB int

	// Geocoding
	Geocoder        string
	MapboxToken     string
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Events
	KafkaBrokers []string
	KafkaTopic   string

	// Submission throttling per client IP; zero disables it
	SubmitRatePerMinute int
	SubmitBurst         int

	statsRefreshInterval int
}

// Load reads the environment (after .env has been applied) into a Config.
func Load() (*Config, error) {
	statsRefreshInterval, _ := strconv.Atoi(getenv("STATS_REFRESH_INTERVAL", "60"))
	maxUploadMB, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "10"))
	mapboxCacheSize, _ := strconv.Atoi(getenv("MAPBOX_CACHE_SIZE", "1000"))
	submitRate, _ := strconv.Atoi(getenv("SUBMIT_RATE_PER_MINUTE", "30"))
	submitBurst, _ := strconv.Atoi(getenv("SUBMIT_BURST", "10"))

	mapboxTimeout, err := time.ParseDuration(getenv("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, fmt.Errorf("invalid MAPBOX_TIMEOUT")
	}

	var brokers []string
	if raw := getenv("KAFKA_BROKERS", ""); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		AppEnv:   getenv("APP_ENV", "production"),
		APIPort:  getenv("API_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		LogFile:  getenv("LOG_FILE", ""),

		StoreDriver:    getenv("STORE_DRIVER", StoreDriverCSV),
		StoreWriteMode: getenv("STORE_WRITE_MODE", WriteModeRewrite),
		CSVPath:        getenv("CSV_PATH", "flood_data.csv"),
		DBDSN:          getenv("DB_DSN", "flood_reports.db"),

		ImageDir:    getenv("IMAGE_DIR", "flood_images"),
		MaxUploadMB: maxUploadMB,

		Geocoder:        getenv("GEOCODER", GeocoderPlaceholder),
		MapboxToken:     getenv("MAPBOX_TOKEN", ""),
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		KafkaBrokers: brokers,
		KafkaTopic:   getenv("KAFKA_TOPIC", "flood-reports"),

		SubmitRatePerMinute: submitRate,
		SubmitBurst:         submitBurst,

		statsRefreshInterval: statsRefreshInterval,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects combinations the application cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverCSV, StoreDriverSQLite, StoreDriverMySQL:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.StoreWriteMode {
	case WriteModeRewrite, WriteModeAppend:
	default:
		return fmt.Errorf("unsupported STORE_WRITE_MODE %q", c.StoreWriteMode)
	}

	switch c.Geocoder {
	case GeocoderPlaceholder:
	case GeocoderMapbox:
		if c.MapboxToken == "" {
			return fmt.Errorf("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return fmt.Errorf("unsupported GEOCODER %q", c.Geocoder)
	}

	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.MapboxCacheSize <= 0 {
		c.MapboxCacheSize = 1000
	}
	if c.SubmitRatePerMinute > 0 && c.SubmitBurst <= 0 {
		c.SubmitBurst = 1
	}
	if c.statsRefreshInterval <= 0 {
		c.statsRefreshInterval = 60
	}

	return nil
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func (c *Config) GetAPIPort() string {
	return ":" + c.APIPort
}

func (c *Config) GetStatsRefreshInterval() time.Duration {
	return time.Duration(c.statsRefreshInterval) * time.Second
}

func (c *Config) GetMaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "local" || c.AppEnv == "development"
}

func (c *Config) IsSubmitRateLimited() bool {
	return c.SubmitRatePerMinute > 0
}

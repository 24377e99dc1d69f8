package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_PORT", "8080")
	t.Setenv("STORE_DRIVER", "csv")
	t.Setenv("STORE_WRITE_MODE", "rewrite")
	t.Setenv("CSV_PATH", "flood_data.csv")
	t.Setenv("IMAGE_DIR", "flood_images")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("GEOCODER", "placeholder")
	t.Setenv("STATS_REFRESH_INTERVAL", "60")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("MAPBOX_TIMEOUT", "5s")
	t.Setenv("SUBMIT_RATE_PER_MINUTE", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetAPIPort())
	assert.Equal(t, StoreDriverCSV, cfg.StoreDriver)
	assert.Equal(t, WriteModeRewrite, cfg.StoreWriteMode)
	assert.Equal(t, "flood_data.csv", cfg.CSVPath)
	assert.Equal(t, "flood_images", cfg.ImageDir)
	assert.Equal(t, int64(10<<20), cfg.GetMaxUploadBytes())
	assert.Equal(t, 60*time.Second, cfg.GetStatsRefreshInterval())
	assert.Empty(t, cfg.KafkaBrokers)
	assert.True(t, cfg.IsSubmitRateLimited())
}

func TestLoad_SubmitRateLimitDisabled(t *testing.T) {
	t.Setenv("SUBMIT_RATE_PER_MINUTE", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.IsSubmitRateLimited())
}

func TestLoad_KafkaBrokers(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidStoreDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoad_MapboxRequiresToken(t *testing.T) {
	t.Setenv("GEOCODER", "mapbox")
	t.Setenv("MAPBOX_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_InvalidMapboxTimeout(t *testing.T) {
	t.Setenv("MAPBOX_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_FillsZeroIntervals(t *testing.T) {
	cfg := &Config{
		StoreDriver:    StoreDriverCSV,
		StoreWriteMode: WriteModeAppend,
		Geocoder:       GeocoderPlaceholder,
		MaxUploadMB:    1,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60*time.Second, cfg.GetStatsRefreshInterval())
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithEnv(t *testing.T, env map[string]string) *Config {
	t.Helper()

	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestModeDefaultsToLocal(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"STORAGE_MODE": "",
		"MONGO_URI":    "",
		"S3_ENDPOINT":  "",
	})

	assert.Equal(t, ModeLocal, cfg.Storage.Mode)
	assert.False(t, cfg.IsCloudMode())
}

func TestModeCloudWhenAllCredentialsPresent(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"STORAGE_MODE":  "",
		"MONGO_URI":     "mongodb://localhost:27017",
		"S3_ENDPOINT":   "localhost:9000",
		"S3_ACCESS_KEY": "minio",
		"S3_SECRET_KEY": "minio123",
	})

	assert.Equal(t, ModeCloud, cfg.Storage.Mode)
	assert.True(t, cfg.IsCloudMode())
}

func TestModeStaysLocalWithPartialCredentials(t *testing.T) {
	// มีแค่ Mongo แต่ไม่มี S3 = ยังไม่ครบ ไม่ยอมเป็น cloud
	cfg := loadWithEnv(t, map[string]string{
		"STORAGE_MODE":  "",
		"MONGO_URI":     "mongodb://localhost:27017",
		"S3_ENDPOINT":   "",
		"S3_ACCESS_KEY": "",
		"S3_SECRET_KEY": "",
	})

	assert.Equal(t, ModeLocal, cfg.Storage.Mode)
}

func TestModeOverride(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{
		"STORAGE_MODE": "local",
		"MONGO_URI":    "mongodb://localhost:27017",
		"S3_ENDPOINT":  "localhost:9000",
		"S3_ACCESS_KEY": "minio",
		"S3_SECRET_KEY": "minio123",
	})

	assert.Equal(t, ModeLocal, cfg.Storage.Mode)
}

func TestInsightsEnabled(t *testing.T) {
	base := map[string]string{
		"COGNITIVE_SERVICES_KEY":      "",
		"COGNITIVE_SERVICES_ENDPOINT": "",
		"VIDEO_INDEXER_KEY":           "",
		"VIDEO_INDEXER_ACCOUNT_ID":    "",
	}

	cfg := loadWithEnv(t, base)
	assert.False(t, cfg.InsightsEnabled())

	cfg = loadWithEnv(t, map[string]string{
		"COGNITIVE_SERVICES_KEY":      "key",
		"COGNITIVE_SERVICES_ENDPOINT": "https://example.cognitiveservices.azure.com",
	})
	assert.True(t, cfg.InsightsEnabled())

	cfg = loadWithEnv(t, map[string]string{
		"VIDEO_INDEXER_KEY":        "key",
		"VIDEO_INDEXER_ACCOUNT_ID": "account",
	})
	assert.True(t, cfg.InsightsEnabled())
}

func TestDefaults(t *testing.T) {
	cfg := loadWithEnv(t, map[string]string{})

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "./uploads", cfg.Storage.BasePath)
	assert.Equal(t, "local_videos.json", cfg.Storage.LocalDBFile)
	assert.Equal(t, int64(524288000), cfg.Storage.MaxUploadSize)
	assert.Equal(t, "clipsharedb", cfg.Mongo.Database)
	assert.Equal(t, "videos", cfg.Mongo.Collection)
	assert.Equal(t, "trial", cfg.Insights.IndexerLocation)
}

package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "./data", cfg.App.DataDir)
	assert.Equal(t, "./models", cfg.App.ModelsDir)
	assert.Equal(t, 12, cfg.App.Periods)
	assert.Equal(t, 14, cfg.App.HorizonDays)
	assert.Equal(t, "stockout14d_logreg.json", cfg.App.ModelFileName)
	assert.Equal(t, "metrics.json", cfg.App.MetricsFile)
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.False(t, cfg.Cache.Enabled)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("APP_PERIODS", 18)
	v.Set("STORAGE_BACKEND", "S3")
	v.Set("S3_BUCKET", "artifacts")
	v.Set("CACHE_ENABLED", true)
	v.Set("REDIS_URL", "redis://localhost:6379/1")

	cfg := FromViper(v)

	assert.Equal(t, 18, cfg.App.Periods)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "artifacts", cfg.Storage.Bucket)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(dir))
	require.DirExists(t, dir)
	require.NoError(t, EnsureDir(dir))
}

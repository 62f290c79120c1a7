package config_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"selfie-filter-backend/internal/config"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "DATABASE_URL", "UPLOAD_DIR", "UPLOAD_URL_PREFIX",
		"ASSETS_DIR", "DELETE_FILES", "FILTER_CONFIG_PATH", "JPEG_QUALITY", "MAX_UPLOAD_BYTES",
		"MAX_JSON_BYTES", "SUPABASE_URL", "SUPABASE_SERVICE_KEY", "SUPABASE_STORAGE_BUCKET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "/uploads", cfg.UploadURLPrefix)
	assert.Equal(t, "assets", cfg.AssetsDir)
	assert.Equal(t, 95, cfg.JPEGQuality)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, int64(50<<20), cfg.MaxJSONBytes)
	assert.True(t, cfg.DeleteFiles)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.MirrorEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JPEG_QUALITY", "80")
	t.Setenv("DELETE_FILES", "false")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 80, cfg.JPEGQuality)
	assert.False(t, cfg.DeleteFiles)
	assert.True(t, cfg.MirrorEnabled())
	assert.Equal(t, "photos", cfg.SupabaseStorageBucket)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("JPEG_QUALITY", "high")
	t.Setenv("DELETE_FILES", "maybe")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 95, cfg.JPEGQuality)
	assert.True(t, cfg.DeleteFiles)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Port:            "3000",
			LogLevel:        "info",
			UploadDir:       "uploads",
			UploadURLPrefix: "/uploads",
			JPEGQuality:     95,
			MaxUploadBytes:  1,
			MaxJSONBytes:    1,
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"non-numeric port", func(c *config.Config) { c.Port = "http" }},
		{"empty upload dir", func(c *config.Config) { c.UploadDir = "" }},
		{"relative url prefix", func(c *config.Config) { c.UploadURLPrefix = "uploads" }},
		{"quality too low", func(c *config.Config) { c.JPEGQuality = 0 }},
		{"quality too high", func(c *config.Config) { c.JPEGQuality = 101 }},
		{"zero upload limit", func(c *config.Config) { c.MaxUploadBytes = 0 }},
		{"half configured mirror", func(c *config.Config) { c.SupabaseURL = "https://example.supabase.co" }},
		{"unknown log level", func(c *config.Config) { c.LogLevel = "verbose" }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogger_Level(t *testing.T) {
	cfg := config.Config{LogLevel: "debug"}
	logger := cfg.Logger()
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	cfg.LogLevel = "warn"
	assert.False(t, cfg.Logger().Enabled(t.Context(), slog.LevelInfo))
}

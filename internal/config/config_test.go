package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Extraction.CatalogPath)
	assert.InDelta(t, 0.01, cfg.Extraction.DedupTolerance, 1e-9)
	assert.InDelta(t, 0.7, cfg.Extraction.BaseConfidence, 1e-9)
	assert.InDelta(t, 0.2, cfg.Extraction.ContextBoost, 1e-9)
	assert.InDelta(t, 0.15, cfg.Extraction.ExcludePenalty, 1e-9)

	assert.Equal(t, "kpiscan.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 20, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, 40, cfg.Server.RateBurst)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrentDocuments)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("KPISCAN_SERVER_PORT", "9999")
	t.Setenv("KPISCAN_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "verbose", Format: "json"}))
}

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("QUASAR_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8040, cfg.Port)
	assert.InDelta(t, 1e-6, cfg.NormTolerance, 1e-18)
	assert.InDelta(t, 1e-10, cfg.NearZero, 1e-18)
	assert.Equal(t, 20, cfg.MaxQubits)
	assert.Equal(t, 50, cfg.HistogramWidth)
	assert.Equal(t, 90, cfg.HistoryRetentionDays)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUASAR_DATA_DIR", dir)
	t.Setenv("QUASAR_PORT", "9000")
	t.Setenv("QUASAR_MAX_QUBITS", "12")
	t.Setenv("QUASAR_NORM_TOLERANCE", "0.001")
	t.Setenv("QUASAR_HISTORY_RETENTION_DAYS", "7")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 12, cfg.MaxQubits)
	assert.InDelta(t, 0.001, cfg.NormTolerance, 1e-12)
	assert.Equal(t, 7, cfg.HistoryRetentionDays)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestHistoryDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUASAR_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.DataDir, "history.db"), cfg.HistoryDBPath())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avance-dl/avance/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, utils.DefaultChunkSize, cfg.Download.ChunkSize)
	assert.Equal(t, utils.DefaultWorkers, cfg.Download.MaxWorkers)
	assert.Equal(t, utils.DefaultSegments, cfg.Download.MaxSegments)
	assert.Equal(t, 30, cfg.Download.TimeoutSeconds)
	assert.Equal(t, utils.DefaultRetryAttempts, cfg.Download.RetryAttempts)
	assert.Equal(t, utils.DefaultMinSegmentSize, cfg.Download.MinFileSizeForSegmentation)
	assert.False(t, cfg.Download.KeepPartial)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avance.yaml")
	content := `download:
  chunk_size: 65536
  max_workers: 3
  max_segments: 12
  keep_partial: true
storage:
  warn_threshold_percent: 80
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 65536, cfg.Download.ChunkSize)
	assert.Equal(t, 3, cfg.Download.MaxWorkers)
	assert.Equal(t, 12, cfg.Download.MaxSegments)
	assert.True(t, cfg.Download.KeepPartial)
	assert.Equal(t, 80, cfg.Storage.WarnThresholdPercent)
	// Unset keys keep defaults.
	assert.Equal(t, utils.DefaultRetryAttempts, cfg.Download.RetryAttempts)
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avance.yaml")
	content := `download:
  max_segments: 99
  max_workers: -1
  chunk_size: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, utils.MaxSegments, cfg.Download.MaxSegments)
	assert.Equal(t, utils.DefaultWorkers, cfg.Download.MaxWorkers)
	assert.Equal(t, utils.DefaultChunkSize, cfg.Download.ChunkSize)
}

func TestLoadSegmentsBelowMinimum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  max_segments: 1\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, utils.MinSegments, cfg.Download.MaxSegments)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AVANCE_DOWNLOAD_MAX_WORKERS", "7")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Download.MaxWorkers)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "avance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

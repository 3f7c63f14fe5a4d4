package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tra", cfg.Root)
	assert.Equal(t, "utf-8", cfg.SourceEncoding)
	assert.Equal(t, "windows-1252", cfg.OutputEncoding)
	assert.Equal(t, "interval", cfg.RangeCompare)
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.False(t, cfg.FixEncoding)
	assert.Equal(t, "utf-8", cfg.TargetTRAEncoding())

	assert.Equal(t, filepath.Join("tra", "English"), cfg.SourceDir())
	assert.Equal(t, filepath.Join("tra", "French"), cfg.TargetDir())
	assert.Equal(t, filepath.Join("tra", "Working_po"), cfg.WorkingDir("po"))
	assert.Equal(t, filepath.Join("tra", "Finished_json"), cfg.FinishedDir("json"))
	assert.Equal(t, filepath.Join("tra", "Finished_tra"), cfg.FinishedTRAPath())
	assert.Len(t, cfg.Dirs(), 7)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRA_ROOT", "/data/iwd2")
	t.Setenv("TRA_TARGET_LANG", "German")
	t.Setenv("TRA_WORKER_COUNT", "0")
	t.Setenv("TRA_FIX_ENCODING", "true")
	t.Setenv("TRA_TARGET_ENCODING", "windows-1252")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/data/iwd2", "German"), cfg.TargetDir())
	assert.Equal(t, 1, cfg.WorkerCount)
	assert.True(t, cfg.FixEncoding)
	assert.Equal(t, "windows-1252", cfg.TargetTRAEncoding())
	assert.Equal(t, "utf-8", cfg.SourceEncoding)
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRA_WORKER_COUNT", "many")

	_, err := Load()
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 10, cfg.Cutoff)
	assert.Equal(t, 1<<16, cfg.QueueCapacity)
	assert.True(t, cfg.Verify)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Config{Threads: 0, Cutoff: 0, QueueCapacity: 0}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "threads")
	assert.Contains(t, err.Error(), "cutoff")
	assert.Contains(t, err.Error(), "queue_capacity")
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "sort.yaml", "threads: 8\ncutoff: 2\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Threads)
	assert.Equal(t, 2, cfg.Cutoff)
	assert.Equal(t, DefaultQueueCapacity, cfg.QueueCapacity, "missing keys keep defaults")
	assert.True(t, cfg.Verify)
}

func TestLoad_YAMLEmpty(t *testing.T) {
	path := writeFile(t, "empty.yml", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLUnknownField(t *testing.T) {
	path := writeFile(t, "bad.yaml", "threads: 2\nworkers: 3\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestLoad_YAMLInvalidValue(t *testing.T) {
	path := writeFile(t, "bad.yaml", "queue_capacity: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue_capacity")
}

func TestLoad_CUE(t *testing.T) {
	path := writeFile(t, "sort.cue", "threads: 2\nqueue_capacity: 1000\nverify: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Threads)
	assert.Equal(t, DefaultCutoff, cfg.Cutoff)
	assert.Equal(t, 1000, cfg.QueueCapacity)
	assert.False(t, cfg.Verify)
}

func TestLoad_CUEViolatesSchema(t *testing.T) {
	path := writeFile(t, "sort.cue", "threads: 0\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate cue")
}

func TestLoad_CUEUnknownField(t *testing.T) {
	path := writeFile(t, "sort.cue", "workers: 3\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "sort.toml", "threads = 2\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

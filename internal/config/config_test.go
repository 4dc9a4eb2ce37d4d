package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFileMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := FromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "livepack", cfg.Prefix)
	assert.False(t, cfg.Strict)
}

func TestFromFileAppliesOnlyGivenKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: true\ninit: ./init.js\n"), 0o644))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "./init.js", cfg.InitPath)
	assert.Equal(t, "livepack", cfg.Prefix, "a key omitted from the file keeps its default")
}

func TestFromEnvOverridesFileDefaults(t *testing.T) {
	t.Setenv("JSINSTRUMENT_PREFIX", "custom")
	t.Setenv("JSINSTRUMENT_COMMONJS", "true")

	cfg := &Config{Prefix: "livepack"}
	require.NoError(t, cfg.FromEnv())

	assert.Equal(t, "custom", cfg.Prefix)
	assert.True(t, cfg.CommonJS)
}

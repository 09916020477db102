package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring the original on cleanup. (t.Chdir requires Go 1.24+.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// A missing config.yml must surface as an error, never kill the process.
func TestLoadConfigMissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestLoadConfigFromDataDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "config.yml"), []byte("token: abc\n"), 0o644))
	chdir(t, dir)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "!", cfg.DefaultPrefix)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "data/prefixes.json", cfg.PrefixFile)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("port: 8080\n"), 0o644))
	chdir(t, dir)

	_, err := loadConfig()
	assert.Error(t, err)
}

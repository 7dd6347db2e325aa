package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.kern.sh/kern/internal/adapters/config"
	"go.kern.sh/kern/internal/core/domain"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.KernFileName), []byte(content), 0o644))
}

func TestLoader_Defaults(t *testing.T) {
	loader := config.NewLoader(nil)

	settings, err := loader.Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestLoader_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
version: "1"
watch:
  poll_interval: 50ms
  debounce: 1s
  strategy: notify
  verify_content: true
  ignore: [".git"]
language:
  extension: .pyx
runtime:
  interpreter: python3.12
  entry_function: main
log:
  file: crash.log
  json: true
`)

	loader := config.NewLoader(nil)
	settings, err := loader.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, settings.PollInterval)
	assert.Equal(t, time.Second, settings.Debounce)
	// Unset fields stay at their defaults.
	assert.Equal(t, 100*time.Millisecond, settings.Heartbeat)
	assert.Equal(t, domain.StrategyNotify, settings.Strategy)
	assert.True(t, settings.VerifyContent)
	assert.Equal(t, []string{".git"}, settings.IgnoreDirs)
	assert.Equal(t, ".pyx", settings.Profile.Extension)
	assert.Equal(t, "__init__.py", settings.Profile.Initializer)
	assert.Equal(t, "python3.12", settings.Interpreter)
	assert.Equal(t, "main", settings.EntryFunction)
	assert.Equal(t, "crash.log", settings.CrashLogPath)
	assert.True(t, settings.JSONLogs)
}

func TestLoader_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "watch:\n  debounce: 2s\n")

	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	loader := config.NewLoader(nil)
	settings, err := loader.Load(nested)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, settings.Debounce)
}

func TestLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "watch: [not a map")

	loader := config.NewLoader(nil)
	_, err := loader.Load(dir)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoader_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "watch:\n  debounce: soon\n")

	loader := config.NewLoader(nil)
	_, err := loader.Load(dir)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoader_InvalidStrategy(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "watch:\n  strategy: psychic\n")

	loader := config.NewLoader(nil)
	_, err := loader.Load(dir)
	assert.ErrorIs(t, err, domain.ErrInvalidStrategy)
}

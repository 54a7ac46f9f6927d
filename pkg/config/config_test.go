package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper() {
	viper.Reset()
	mu.Lock()
	global = nil
	mu.Unlock()
}

func TestLoadDefaults(t *testing.T) {
	resetViper()
	defer resetViper()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Agent.MaxIterations)
	assert.Equal(t, 5*time.Minute, cfg.Ollama.Timeout)
}

func TestLoadFromFile(t *testing.T) {
	resetViper()
	defer resetViper()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := []byte("provider: agent\nollama:\n  model: llama3:latest\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "agent", cfg.Provider)
	assert.Equal(t, "llama3:latest", cfg.Ollama.Model)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset keys keep defaults
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
}

func TestGetWithoutLoad(t *testing.T) {
	resetViper()
	defer resetViper()

	cfg := Get()
	require.NotNil(t, cfg)
	assert.Equal(t, "ollama", cfg.Provider)
}

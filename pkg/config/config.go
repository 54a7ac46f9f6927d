package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Provider     string        `mapstructure:"provider"` // Selected provider: ollama, agent
	SystemPrompt string        `mapstructure:"system_prompt"`
	Assistant    string        `mapstructure:"assistant"` // Display name used for assistant messages
	Logging      LoggingConfig `mapstructure:"logging"`
	Ollama       OllamaConfig  `mapstructure:"ollama"`
	Agent        AgentConfig   `mapstructure:"agent"`
	Tools        ToolsConfig   `mapstructure:"tools"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	LogFile string `mapstructure:"log_file"`
}

// OllamaConfig holds Ollama-specific configuration
type OllamaConfig struct {
	URL     string        `mapstructure:"url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AgentConfig holds agent-mode configuration
type AgentConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxIterations int  `mapstructure:"max_iterations"`
}

// ToolsConfig holds tool-related configuration
type ToolsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var (
	global *Config
	mu     sync.RWMutex
)

// Load reads configuration from the given file (optional) plus environment
// variables and returns the resolved Config. The result also becomes the
// package-global config returned by Get.
func Load(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
			}
		}
	}

	viper.SetEnvPrefix("LOOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	mu.Lock()
	global = cfg
	mu.Unlock()

	return cfg, nil
}

// Get returns the global configuration, loading defaults if Load was never called.
func Get() *Config {
	mu.RLock()
	cfg := global
	mu.RUnlock()

	if cfg != nil {
		return cfg
	}

	cfg, err := Load("")
	if err != nil {
		// Defaults alone cannot fail to unmarshal; keep the zero config as a floor.
		cfg = &Config{}
	}
	return cfg
}

func setDefaults() {
	viper.SetDefault("provider", "ollama")
	viper.SetDefault("system_prompt", "You are a helpful assistant.")
	viper.SetDefault("assistant", "assistant")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.log_file", "")

	viper.SetDefault("ollama.url", "http://localhost:11434")
	viper.SetDefault("ollama.model", "qwen3:latest")
	viper.SetDefault("ollama.timeout", 5*time.Minute)

	viper.SetDefault("agent.enabled", false)
	viper.SetDefault("agent.max_iterations", 8)

	viper.SetDefault("tools.enabled", true)
}

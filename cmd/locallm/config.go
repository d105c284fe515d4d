package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/locallm"
	"github.com/fwojciec/locallm/agent"
	"github.com/fwojciec/locallm/gemini"
	"github.com/fwojciec/locallm/lock"
	"github.com/fwojciec/locallm/lru"
	"github.com/fwojciec/locallm/ollama"
	"gopkg.in/yaml.v3"
)

// Supported model providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// configFilename is looked up in the working directory and in ~/.locallm.
const configFilename = "config.yaml"

// Config is the optional YAML configuration file.
type Config struct {
	Provider     string             `yaml:"provider"`
	Ollama       OllamaConfig       `yaml:"ollama"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	Agent        AgentConfig        `yaml:"agent"`
	KnowledgeMap KnowledgeMapConfig `yaml:"knowledge_map"`
	Cache        CacheConfig        `yaml:"cache"`
	History      HistoryConfig      `yaml:"history"`
}

// OllamaConfig configures the local inference service.
type OllamaConfig struct {
	Host        string  `yaml:"host"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	// Timeout in seconds.
	Timeout int `yaml:"timeout"`
}

// GeminiConfig configures the hosted provider.
type GeminiConfig struct {
	Model string `yaml:"model"`
}

// AgentConfig bounds the reasoning loop.
type AgentConfig struct {
	MaxIterations     int      `yaml:"max_iterations"`
	IncompletePhrases []string `yaml:"incomplete_phrases"`
}

// KnowledgeMapConfig configures building and guarding the map.
type KnowledgeMapConfig struct {
	Filename string `yaml:"filename"`
	// LockTimeout in seconds.
	LockTimeout int `yaml:"lock_timeout"`
	Concurrency int `yaml:"concurrency"`
}

// CacheConfig bounds the document cache.
type CacheConfig struct {
	MaxSizeMB int `yaml:"max_size_mb"`
	MaxItems  int `yaml:"max_items"`
}

// HistoryConfig locates the question history database.
type HistoryConfig struct {
	DB string `yaml:"db"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		Ollama: OllamaConfig{
			Host:        ollama.DefaultHost,
			Model:       locallm.DefaultModel,
			Temperature: agent.DefaultTemperature,
			Timeout:     int(ollama.DefaultTimeout / time.Second),
		},
		Gemini: GeminiConfig{Model: gemini.DefaultModel},
		Agent: AgentConfig{
			MaxIterations:     agent.DefaultMaxIterations,
			IncompletePhrases: agent.DefaultIncompletePhrases,
		},
		KnowledgeMap: KnowledgeMapConfig{
			Filename:    locallm.DefaultKnowledgeMapFilename,
			LockTimeout: int(lock.DefaultTimeout / time.Second),
		},
		Cache: CacheConfig{
			MaxSizeMB: lru.DefaultMaxSize >> 20,
			MaxItems:  lru.DefaultMaxItems,
		},
	}
}

// ConfigPaths returns the locations searched for a config file, in order.
// An explicit path replaces the search.
func ConfigPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	paths := []string{configFilename}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".locallm", configFilename))
	}
	return paths
}

// LoadConfig reads the first config file found among ConfigPaths(explicit)
// over the defaults. It returns the path that was read, or "" when none
// exists. A missing explicit file is an error.
func LoadConfig(explicit string) (*Config, string, error) {
	cfg := DefaultConfig()
	for _, path := range ConfigPaths(explicit) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			if explicit != "" {
				return nil, "", locallm.Errorf(locallm.ENOTFOUND, "config file %s not found", path)
			}
			continue
		} else if err != nil {
			return nil, "", fmt.Errorf("reading config: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, "", locallm.Errorf(locallm.EINVALID, "malformed config %s: %s", path, err)
		}
		return cfg, path, nil
	}
	return cfg, "", nil
}

// Timeout returns the request timeout for the inference service.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Ollama.Timeout) * time.Second
}

// LockTimeout returns how long a rebuild waits for the directory guard.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.KnowledgeMap.LockTimeout) * time.Second
}

// CacheMaxSize returns the cache byte bound.
func (c *Config) CacheMaxSize() int64 {
	return int64(c.Cache.MaxSizeMB) << 20
}

// ModelName returns the configured model for the selected provider.
func (c *Config) ModelName() string {
	if c.Provider == ProviderGemini {
		return c.Gemini.Model
	}
	return c.Ollama.Model
}

// Package config provides configuration loading and structs for the
// careerchat server and build pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Sources   SourcesConfig   `yaml:"sources"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	LLM       LLMConfig       `yaml:"llm"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SourcesConfig names the career inputs used by the build step.
type SourcesConfig struct {
	ResumePath string `yaml:"resume_path"`
	ExportDir  string `yaml:"export_dir"`
}

// StorageConfig holds the snapshot location. A .db or .sqlite extension
// selects the SQLite store, anything else the flat binary file.
type StorageConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
}

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	// Provider is "onnx", "ollama" or "mock".
	Provider   string `yaml:"provider"`
	ModelPath  string `yaml:"model_path"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// ChunkingConfig holds chunk sizing settings.
type ChunkingConfig struct {
	MaxChars int `yaml:"max_chars"`
	MinChars int `yaml:"min_chars"`
}

// RetrievalConfig holds retrieval settings.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// LLMConfig holds chat model settings. With no provider set, OpenAI is used
// when an API key is available, otherwise a local Ollama server.
type LLMConfig struct {
	Provider       string `yaml:"provider"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.SnapshotPath = expandPath(cfg.Storage.SnapshotPath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	if cfg.Sources.ResumePath != "" {
		cfg.Sources.ResumePath = expandPath(cfg.Sources.ResumePath, configDir)
	}
	if cfg.Sources.ExportDir != "" {
		cfg.Sources.ExportDir = expandPath(cfg.Sources.ExportDir, configDir)
	}

	// The API key can come from the environment instead of the file.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

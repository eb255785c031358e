package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the pdfchat tool.
type Config struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Summary   SummaryConfig   `yaml:"summary"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkingConfig holds text splitting configuration.
type ChunkingConfig struct {
	Size    int `yaml:"size"`    // max characters per chunk
	Overlap int `yaml:"overlap"` // characters shared between neighbors
}

// RetrievalConfig holds similarity search configuration.
type RetrievalConfig struct {
	TopK        int     `yaml:"top_k"`
	MaxDistance float64 `yaml:"max_distance"` // drop results scoring above this
}

// SummaryConfig holds the full-corpus summarization path configuration.
type SummaryConfig struct {
	MaxContextChars int `yaml:"max_context_chars"`
}

// EmbeddingConfig holds embedding backend configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "all-minilm"
	BaseURL   string `yaml:"base_url"`    // override for openai-compatible servers
	APIKeyEnv string `yaml:"api_key_env"` // environment variable holding the key
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
}

// LLMConfig holds the streaming generation service configuration.
type LLMConfig struct {
	Model          string        `yaml:"model"`
	BaseURL        string        `yaml:"base_url"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// CacheConfig holds the persistent extraction cache configuration.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"` // defaults to .pdfchat under the working directory
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 100,
		},
		Retrieval: RetrievalConfig{
			TopK:        5,
			MaxDistance: 0.7,
		},
		Summary: SummaryConfig{
			MaxContextChars: 8000,
		},
		Embedding: EmbeddingConfig{
			Provider:  "ollama",
			Model:     "all-minilm",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
			BatchSize: 100,
		},
		LLM: LLMConfig{
			Model:          "tinyllama",
			BaseURL:        "http://localhost:11434",
			ConnectTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for pdfchat.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "pdfchat.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".pdfchat", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheDBPath returns the path to the extraction cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, ".pdfchat", "cache.db")
}

// EnsureStateDir ensures the .pdfchat directory exists.
func EnsureStateDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".pdfchat"), 0755)
}

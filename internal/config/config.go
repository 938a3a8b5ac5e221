package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"tabular-rag/internal/models"
)

type Config struct {
	EmbedLLM     LLMConfig     `yaml:"embed_llm"`
	InferenceLLM LLMConfig     `yaml:"inference_llm"`
	RAG          RAGConfig     `yaml:"rag"`
	Logging      LoggingConfig `yaml:"logging"`
}

// LLMConfig describes one external model endpoint.
type LLMConfig struct {
	Provider    string   `yaml:"provider"` // "google", "openai", "ollama"
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	Key         string   `yaml:"key"`
	APIKeyEnv   string   `yaml:"api_key_env"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	BatchSize   int      `yaml:"batch_size"`
}

type RAGConfig struct {
	TopK    int    `yaml:"top_k"`
	Variant string `yaml:"variant"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	defaultAPIKeyEnv      = "GEMINI_API_KEY"
	defaultEmbeddingModel = "models/embedding-001"
	defaultInferenceModel = "models/gemini-1.5-flash"
	defaultBatchSize      = 100
	defaultChainTemp      = 0.1
)

func DefaultConfig() *Config {
	temp := defaultChainTemp
	return &Config{
		EmbedLLM: LLMConfig{
			Provider:  ProviderGoogle,
			Model:     defaultEmbeddingModel,
			APIKeyEnv: defaultAPIKeyEnv,
			BatchSize: defaultBatchSize,
		},
		InferenceLLM: LLMConfig{
			Provider:    ProviderGoogle,
			Model:       defaultInferenceModel,
			APIKeyEnv:   defaultAPIKeyEnv,
			Temperature: &temp,
		},
		RAG: RAGConfig{
			TopK:    models.DefaultTopK,
			Variant: string(models.VariantDirect),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.resolveKeys()
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolveKeys()
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = models.DefaultTopK
	}
	if c.EmbedLLM.BatchSize <= 0 {
		c.EmbedLLM.BatchSize = defaultBatchSize
	}
	if _, err := models.ParseVariant(c.RAG.Variant); err != nil {
		return err
	}
	for _, llm := range []LLMConfig{c.EmbedLLM, c.InferenceLLM} {
		switch llm.Provider {
		case ProviderGoogle, ProviderOpenAI, ProviderOllama:
		default:
			return fmt.Errorf("%w: %q", models.ErrUnknownProvider, llm.Provider)
		}
	}
	return nil
}

// fill empty keys from the environment
func (c *Config) resolveKeys() {
	for _, llm := range []*LLMConfig{&c.EmbedLLM, &c.InferenceLLM} {
		if llm.Key == "" && llm.APIKeyEnv != "" {
			llm.Key = os.Getenv(llm.APIKeyEnv)
		}
	}
}

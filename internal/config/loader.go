package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CORTEX_*)
// 2. Config file (.cortex/config.yml or .cortex/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	// Configure viper
	v := viper.New()

	// Set up config file search
	configDir := filepath.Join(l.rootDir, ".cortex")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix("CORTEX")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., CORTEX_EMBEDDING_PROVIDER)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	// Embedding configuration
	v.BindEnv("embedding.provider")
	v.BindEnv("embedding.model")
	v.BindEnv("embedding.dimensions")
	v.BindEnv("embedding.endpoint")

	// LLM configuration
	v.BindEnv("llm.provider")
	v.BindEnv("llm.model")
	v.BindEnv("llm.endpoint")

	// Chunking configuration
	v.BindEnv("chunking.min_chunk_bytes")
	v.BindEnv("chunking.size_cap_bytes")
	v.BindEnv("chunking.window_lines")
	v.BindEnv("chunking.window_overlap_lines")
	v.BindEnv("chunking.workers")

	// Research configuration
	v.BindEnv("research.max_sub_questions")
	v.BindEnv("research.max_chunks_per_sub_question")
	v.BindEnv("research.max_follow_ups")
	v.BindEnv("research.max_context_chunks")
	v.BindEnv("research.llm_call_cap")
	v.BindEnv("research.min_search_limit")
	v.BindEnv("research.max_search_limit")
	v.BindEnv("research.min_context_chunks")

	// Wiki configuration
	v.BindEnv("wiki.architecture_file_count")
	v.BindEnv("wiki.cross_file_top_k")
	v.BindEnv("wiki.see_also_min_shared")
	v.BindEnv("wiki.see_also_top_n")

	// Retry configuration
	v.BindEnv("retry.max_attempts")
	v.BindEnv("retry.base_delay_ms")

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Some other error occurred while reading the config file
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Embedding defaults
	v.SetDefault("embedding.provider", defaults.Embedding.Provider)
	v.SetDefault("embedding.model", defaults.Embedding.Model)
	v.SetDefault("embedding.dimensions", defaults.Embedding.Dimensions)
	v.SetDefault("embedding.endpoint", defaults.Embedding.Endpoint)

	// LLM defaults
	v.SetDefault("llm.provider", defaults.LLM.Provider)
	v.SetDefault("llm.model", defaults.LLM.Model)
	v.SetDefault("llm.endpoint", defaults.LLM.Endpoint)

	// Paths defaults
	v.SetDefault("paths.code", defaults.Paths.Code)
	v.SetDefault("paths.docs", defaults.Paths.Docs)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	// Chunking defaults
	v.SetDefault("chunking.min_chunk_bytes", defaults.Chunking.MinChunkBytes)
	v.SetDefault("chunking.size_cap_bytes", defaults.Chunking.SizeCapBytes)
	v.SetDefault("chunking.window_lines", defaults.Chunking.WindowLines)
	v.SetDefault("chunking.window_overlap_lines", defaults.Chunking.WindowOverlapLines)
	v.SetDefault("chunking.workers", defaults.Chunking.Workers)

	// Research defaults
	v.SetDefault("research.max_sub_questions", defaults.Research.MaxSubQuestions)
	v.SetDefault("research.max_chunks_per_sub_question", defaults.Research.MaxChunksPerSubQuestion)
	v.SetDefault("research.max_follow_ups", defaults.Research.MaxFollowUps)
	v.SetDefault("research.max_context_chunks", defaults.Research.MaxContextChunks)
	v.SetDefault("research.llm_call_cap", defaults.Research.LLMCallCap)
	v.SetDefault("research.min_search_limit", defaults.Research.MinSearchLimit)
	v.SetDefault("research.max_search_limit", defaults.Research.MaxSearchLimit)
	v.SetDefault("research.min_context_chunks", defaults.Research.MinContextChunks)

	// Wiki defaults
	v.SetDefault("wiki.architecture_file_count", defaults.Wiki.ArchitectureFileCount)
	v.SetDefault("wiki.cross_file_top_k", defaults.Wiki.CrossFileTopK)
	v.SetDefault("wiki.see_also_min_shared", defaults.Wiki.SeeAlsoMinShared)
	v.SetDefault("wiki.see_also_top_n", defaults.Wiki.SeeAlsoTopN)

	// Retry defaults
	v.SetDefault("retry.max_attempts", defaults.Retry.MaxAttempts)
	v.SetDefault("retry.base_delay_ms", defaults.Retry.BaseDelayMS)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}

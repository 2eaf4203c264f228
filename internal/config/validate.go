package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidProvider indicates an unsupported embedding or LLM provider
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidDimensions indicates invalid embedding dimensions
	ErrInvalidDimensions = errors.New("invalid embedding dimensions")

	// ErrInvalidChunking indicates an invalid chunking tunable
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrEmptyEndpoint indicates missing embedding endpoint
	ErrEmptyEndpoint = errors.New("empty embedding endpoint")

	// ErrEmptyModel indicates missing model name
	ErrEmptyModel = errors.New("empty model")

	// ErrInvalidResearch indicates an invalid research tunable
	ErrInvalidResearch = errors.New("invalid research configuration")

	// ErrInvalidWiki indicates an invalid wiki tunable
	ErrInvalidWiki = errors.New("invalid wiki configuration")

	// ErrInvalidRetry indicates an invalid retry tunable
	ErrInvalidRetry = errors.New("invalid retry configuration")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	// Validate embedding configuration
	if err := validateEmbedding(&cfg.Embedding); err != nil {
		errs = append(errs, err)
	}

	// Validate LLM configuration
	if err := validateLLM(&cfg.LLM); err != nil {
		errs = append(errs, err)
	}

	// Validate chunking configuration
	if err := validateChunking(&cfg.Chunking); err != nil {
		errs = append(errs, err)
	}

	// Validate research configuration
	if err := validateResearch(&cfg.Research); err != nil {
		errs = append(errs, err)
	}

	// Validate wiki configuration
	if err := validateWiki(&cfg.Wiki); err != nil {
		errs = append(errs, err)
	}

	// Validate retry configuration
	if err := validateRetry(&cfg.Retry); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateEmbedding(cfg *EmbeddingConfig) error {
	var errs []error

	// Validate provider
	if !containsFold(ValidEmbeddingProviders, cfg.Provider) {
		errs = append(errs, fmt.Errorf("%w: embedding provider must be one of %v, got %q",
			ErrInvalidProvider, ValidEmbeddingProviders, cfg.Provider))
	}

	// Validate model
	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, fmt.Errorf("%w: embedding model is required", ErrEmptyModel))
	}

	// Validate dimensions
	if cfg.Dimensions <= 0 {
		errs = append(errs, fmt.Errorf("%w: dimensions must be positive, got %d", ErrInvalidDimensions, cfg.Dimensions))
	}

	// Validate endpoint
	if strings.TrimSpace(cfg.Endpoint) == "" {
		errs = append(errs, fmt.Errorf("%w: endpoint is required", ErrEmptyEndpoint))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLLM(cfg *LLMConfig) error {
	var errs []error

	// Validate provider
	if !containsFold(ValidLLMProviders, cfg.Provider) {
		errs = append(errs, fmt.Errorf("%w: llm provider must be one of %v, got %q",
			ErrInvalidProvider, ValidLLMProviders, cfg.Provider))
	}

	// Validate model
	if strings.TrimSpace(cfg.Model) == "" {
		errs = append(errs, fmt.Errorf("%w: llm model is required", ErrEmptyModel))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateChunking(cfg *ChunkingConfig) error {
	var errs []error

	if cfg.MinChunkBytes < 0 {
		errs = append(errs, fmt.Errorf("%w: min_chunk_bytes cannot be negative, got %d", ErrInvalidChunking, cfg.MinChunkBytes))
	}

	if cfg.SizeCapBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: size_cap_bytes must be positive, got %d", ErrInvalidChunking, cfg.SizeCapBytes))
	}

	if cfg.WindowLines <= 0 {
		errs = append(errs, fmt.Errorf("%w: window_lines must be positive, got %d", ErrInvalidChunking, cfg.WindowLines))
	}

	if cfg.WindowOverlapLines < 0 {
		errs = append(errs, fmt.Errorf("%w: window_overlap_lines cannot be negative, got %d", ErrInvalidChunking, cfg.WindowOverlapLines))
	}

	// Warn if overlap is too large (but only check if WindowLines is positive)
	if cfg.WindowLines > 0 && cfg.WindowOverlapLines >= cfg.WindowLines {
		errs = append(errs, fmt.Errorf("%w: window_overlap_lines (%d) should be less than window_lines (%d)",
			ErrInvalidChunking, cfg.WindowOverlapLines, cfg.WindowLines))
	}

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidChunking, cfg.Workers))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateResearch(cfg *ResearchConfig) error {
	var errs []error

	if cfg.MinSearchLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: min_search_limit must be positive, got %d", ErrInvalidResearch, cfg.MinSearchLimit))
	}

	if cfg.MaxSearchLimit < cfg.MinSearchLimit {
		errs = append(errs, fmt.Errorf("%w: max_search_limit (%d) must be >= min_search_limit (%d)",
			ErrInvalidResearch, cfg.MaxSearchLimit, cfg.MinSearchLimit))
	}

	if cfg.MinContextChunks <= 0 {
		errs = append(errs, fmt.Errorf("%w: min_context_chunks must be positive, got %d", ErrInvalidResearch, cfg.MinContextChunks))
	}

	if cfg.MaxContextChunks < cfg.MinContextChunks {
		errs = append(errs, fmt.Errorf("%w: max_context_chunks (%d) must be >= min_context_chunks (%d)",
			ErrInvalidResearch, cfg.MaxContextChunks, cfg.MinContextChunks))
	}

	if cfg.MaxSubQuestions <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_sub_questions must be positive, got %d", ErrInvalidResearch, cfg.MaxSubQuestions))
	}

	if cfg.MaxChunksPerSubQuestion <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_chunks_per_sub_question must be positive, got %d", ErrInvalidResearch, cfg.MaxChunksPerSubQuestion))
	}

	if cfg.MaxFollowUps < 0 {
		errs = append(errs, fmt.Errorf("%w: max_follow_ups cannot be negative, got %d", ErrInvalidResearch, cfg.MaxFollowUps))
	}

	if cfg.LLMCallCap <= 0 {
		errs = append(errs, fmt.Errorf("%w: llm_call_cap must be positive, got %d", ErrInvalidResearch, cfg.LLMCallCap))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateWiki(cfg *WikiConfig) error {
	var errs []error

	if cfg.ArchitectureFileCount <= 0 {
		errs = append(errs, fmt.Errorf("%w: architecture_file_count must be positive, got %d", ErrInvalidWiki, cfg.ArchitectureFileCount))
	}

	if cfg.CrossFileTopK <= 0 {
		errs = append(errs, fmt.Errorf("%w: cross_file_top_k must be positive, got %d", ErrInvalidWiki, cfg.CrossFileTopK))
	}

	if cfg.SeeAlsoMinShared <= 0 {
		errs = append(errs, fmt.Errorf("%w: see_also_min_shared must be positive, got %d", ErrInvalidWiki, cfg.SeeAlsoMinShared))
	}

	if cfg.SeeAlsoTopN <= 0 {
		errs = append(errs, fmt.Errorf("%w: see_also_top_n must be positive, got %d", ErrInvalidWiki, cfg.SeeAlsoTopN))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateRetry(cfg *RetryConfig) error {
	var errs []error

	if cfg.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%w: max_attempts must be >= 1, got %d", ErrInvalidRetry, cfg.MaxAttempts))
	}

	if cfg.BaseDelayMS < 0 {
		errs = append(errs, fmt.Errorf("%w: base_delay_ms cannot be negative, got %d", ErrInvalidRetry, cfg.BaseDelayMS))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func containsFold(valid []string, v string) bool {
	for _, s := range valid {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

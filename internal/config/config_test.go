package config

import "testing"

func TestDefault_PassesValidation(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Default() config failed validation: %v", err)
	}
}

func TestDefault_MockProvidersAreUsableOutOfTheBox(t *testing.T) {
	cfg := Default()
	if cfg.Embedding.Provider != "mock" {
		t.Errorf("expected default embedding provider mock, got %q", cfg.Embedding.Provider)
	}
	if cfg.LLM.Provider != "mock" {
		t.Errorf("expected default llm provider mock, got %q", cfg.LLM.Provider)
	}
}

func TestValidate_RejectsUnknownEmbeddingProvider(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "bogus"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown embedding provider")
	}
}

func TestValidate_RejectsUnknownLLMProvider(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "bogus"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for unknown llm provider")
	}
}

func TestValidate_RejectsZeroDimensions(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Dimensions = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero dimensions")
	}
}

func TestValidate_RejectsEmptyModel(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Model = "  "
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for empty embedding model")
	}
}

func TestValidate_RejectsOverlapNotLessThanWindow(t *testing.T) {
	cfg := Default()
	cfg.Chunking.WindowOverlapLines = cfg.Chunking.WindowLines
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error when window_overlap_lines >= window_lines")
	}
}

func TestValidate_RejectsZeroWorkers(t *testing.T) {
	cfg := Default()
	cfg.Chunking.Workers = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero workers")
	}
}

func TestValidate_RejectsSearchLimitBoundsInverted(t *testing.T) {
	cfg := Default()
	cfg.Research.MinSearchLimit = 50
	cfg.Research.MaxSearchLimit = 10
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error when max_search_limit < min_search_limit")
	}
}

func TestValidate_RejectsContextChunkBoundsInverted(t *testing.T) {
	cfg := Default()
	cfg.Research.MinContextChunks = 20
	cfg.Research.MaxContextChunks = 5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error when max_context_chunks < min_context_chunks")
	}
}

func TestValidate_RejectsNegativeFollowUps(t *testing.T) {
	cfg := Default()
	cfg.Research.MaxFollowUps = -1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for negative max_follow_ups")
	}
}

func TestValidate_RejectsZeroArchitectureFileCount(t *testing.T) {
	cfg := Default()
	cfg.Wiki.ArchitectureFileCount = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero architecture_file_count")
	}
}

func TestValidate_RejectsMaxAttemptsBelowOne(t *testing.T) {
	cfg := Default()
	cfg.Retry.MaxAttempts = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for max_attempts below 1")
	}
}

func TestValidate_RejectsNegativeBaseDelay(t *testing.T) {
	cfg := Default()
	cfg.Retry.BaseDelayMS = -1
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for negative base_delay_ms")
	}
}

func TestValidate_AccumulatesMultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "bogus"
	cfg.LLM.Provider = "bogus"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected accumulated error")
	}
}

func TestValidate_ProviderMatchIsCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.Embedding.Provider = "MOCK"
	cfg.LLM.Provider = "Mock"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected case-insensitive provider match to pass, got %v", err)
	}
}

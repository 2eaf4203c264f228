// Package config loads and validates cortex's configuration from
// .cortex/config.yml with CORTEX_*-prefixed environment variable
// overrides, the way the teacher's internal/config/loader.go does
// (defaults -> config file -> environment, env wins).
package config

// Config is the complete configuration surface (§6 "Configuration surface
// (enumerated)").
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding" mapstructure:"embedding"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	Chunking  ChunkingConfig  `yaml:"chunking" mapstructure:"chunking"`
	Research  ResearchConfig  `yaml:"research" mapstructure:"research"`
	Wiki      WikiConfig      `yaml:"wiki" mapstructure:"wiki"`
	Retry     RetryConfig     `yaml:"retry" mapstructure:"retry"`
}

// EmbeddingConfig configures the embedding provider (§4.D).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`
	Model      string `yaml:"model" mapstructure:"model"`
	Dimensions int    `yaml:"dimensions" mapstructure:"dimensions"`
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`
}

// LLMConfig configures the LLM provider used by research and wiki
// generation (§4.D).
type LLMConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Model    string `yaml:"model" mapstructure:"model"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// PathsConfig defines which files to index and which to ignore (§4.C).
type PathsConfig struct {
	Code   []string `yaml:"code" mapstructure:"code"`
	Docs   []string `yaml:"docs" mapstructure:"docs"`
	Ignore []string `yaml:"ignore" mapstructure:"ignore"`
}

// ChunkingConfig mirrors internal/chunker.Options plus the indexer's
// worker bound (§4.A, §4.C, §5 "sized by min(config.workers, cpu_count)").
type ChunkingConfig struct {
	MinChunkBytes      int `yaml:"min_chunk_bytes" mapstructure:"min_chunk_bytes"`
	SizeCapBytes       int `yaml:"size_cap_bytes" mapstructure:"size_cap_bytes"`
	WindowLines        int `yaml:"window_lines" mapstructure:"window_lines"`
	WindowOverlapLines int `yaml:"window_overlap_lines" mapstructure:"window_overlap_lines"`
	Workers            int `yaml:"workers" mapstructure:"workers"`
}

// ResearchConfig mirrors internal/research.Options (§4.E, §6).
type ResearchConfig struct {
	MaxSubQuestions         int `yaml:"max_sub_questions" mapstructure:"max_sub_questions"`
	MaxChunksPerSubQuestion int `yaml:"max_chunks_per_sub_question" mapstructure:"max_chunks_per_sub_question"`
	MaxFollowUps            int `yaml:"max_follow_ups" mapstructure:"max_follow_ups"`
	MaxContextChunks        int `yaml:"max_context_chunks" mapstructure:"max_context_chunks"`
	LLMCallCap              int `yaml:"llm_call_cap" mapstructure:"llm_call_cap"`
	MinSearchLimit          int `yaml:"min_search_limit" mapstructure:"min_search_limit"`
	MaxSearchLimit          int `yaml:"max_search_limit" mapstructure:"max_search_limit"`
	MinContextChunks        int `yaml:"min_context_chunks" mapstructure:"min_context_chunks"`
}

// WikiConfig mirrors internal/wiki.Options plus the see-also weaver's
// tunables (§4.F, §4.H, §6).
type WikiConfig struct {
	ArchitectureFileCount int `yaml:"architecture_file_count" mapstructure:"architecture_file_count"`
	CrossFileTopK         int `yaml:"cross_file_top_k" mapstructure:"cross_file_top_k"`
	SeeAlsoMinShared      int `yaml:"see_also_min_shared" mapstructure:"see_also_min_shared"`
	SeeAlsoTopN           int `yaml:"see_also_top_n" mapstructure:"see_also_top_n"`
}

// RetryConfig mirrors internal/providers.RetryPolicy (§4.D, §6
// "max_attempts", "base_delay_ms").
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelayMS int `yaml:"base_delay_ms" mapstructure:"base_delay_ms"`
}

// ValidLanguages is the closed set of languages the chunker recognises
// (§6 "valid_languages ... closed sets used for input validation").
var ValidLanguages = []string{
	"go", "typescript", "javascript", "python", "rust",
	"c", "cpp", "java", "php", "ruby", "markdown", "unknown",
}

// ValidLLMProviders and ValidEmbeddingProviders are the closed provider
// sets used for input validation (§6). "mock" is included because no
// vendor-specific provider implementation ships with this module (§1:
// provider implementations are an external collaborator); it is the only
// provider usable out of the box.
var (
	ValidLLMProviders       = []string{"mock", "openai", "anthropic", "ollama"}
	ValidEmbeddingProviders = []string{"mock", "local", "openai"}
)

// Default returns a configuration with sensible defaults, mirroring the
// teacher's Default() (internal/config/config.go) extended with the
// research/wiki/retry sections SPEC_FULL.md adds.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   "mock",
			Model:      "BAAI/bge-small-en-v1.5",
			Dimensions: 384,
			Endpoint:   "http://localhost:8121/embed",
		},
		LLM: LLMConfig{
			Provider: "mock",
			Model:    "gpt-4o-mini",
			Endpoint: "",
		},
		Paths: PathsConfig{
			Code: []string{
				"**/*.go", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
				"**/*.py", "**/*.rs", "**/*.c", "**/*.cpp", "**/*.cc",
				"**/*.h", "**/*.hpp", "**/*.php", "**/*.rb", "**/*.java",
			},
			Docs: []string{
				"**/*.md", "**/*.rst",
			},
			Ignore: []string{
				"node_modules/**", "vendor/**", ".git/**", "dist/**",
				"build/**", "target/**", "__pycache__/**", "*.test", "*.pyc",
			},
		},
		Chunking: ChunkingConfig{
			MinChunkBytes:      20,
			SizeCapBytes:       64 * 1024,
			WindowLines:        200,
			WindowOverlapLines: 20,
			Workers:            4,
		},
		Research: ResearchConfig{
			MaxSubQuestions:         5,
			MaxChunksPerSubQuestion: 8,
			MaxFollowUps:            3,
			MaxContextChunks:        30,
			LLMCallCap:              15,
			MinSearchLimit:          1,
			MaxSearchLimit:          100,
			MinContextChunks:        1,
		},
		Wiki: WikiConfig{
			ArchitectureFileCount: 12,
			CrossFileTopK:         5,
			SeeAlsoMinShared:      2,
			SeeAlsoTopN:           5,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMS: 1000,
		},
	}
}

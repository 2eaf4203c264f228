// Package chunk holds the data model shared by the chunker, vector store,
// indexer, research pipeline, and wiki builder: chunks, file records,
// entities, wiki pages and their statuses, search results, and research
// progress events.
package chunk

import "fmt"

// Language is the closed set of source languages the chunker recognises.
type Language string

const (
	LanguageGo         Language = "go"
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageC          Language = "c"
	LanguageCPP        Language = "cpp"
	LanguageJava       Language = "java"
	LanguagePHP        Language = "php"
	LanguageRuby       Language = "ruby"
	LanguageMarkdown   Language = "markdown"
	LanguageUnknown    Language = "unknown"
)

// ValidLanguages is the closed set used for input validation (§6).
var ValidLanguages = map[Language]bool{
	LanguageGo: true, LanguageTypeScript: true, LanguageJavaScript: true,
	LanguagePython: true, LanguageRust: true, LanguageC: true, LanguageCPP: true,
	LanguageJava: true, LanguagePHP: true, LanguageRuby: true,
	LanguageMarkdown: true, LanguageUnknown: true,
}

// Kind is the closed set of chunk kinds (§3).
type Kind string

const (
	KindModule    Kind = "MODULE"
	KindClass     Kind = "CLASS"
	KindFunction  Kind = "FUNCTION"
	KindMethod    Kind = "METHOD"
	KindInterface Kind = "INTERFACE"
	KindEnum      Kind = "ENUM"
	KindStruct    Kind = "STRUCT"
	KindImport    Kind = "IMPORT"
	KindConstant  Kind = "CONSTANT"
	KindOther     Kind = "OTHER"
)

// ValidKinds is the closed set used for input validation (§6).
var ValidKinds = map[Kind]bool{
	KindModule: true, KindClass: true, KindFunction: true, KindMethod: true,
	KindInterface: true, KindEnum: true, KindStruct: true, KindImport: true,
	KindConstant: true, KindOther: true,
}

// MetadataPartial flags a chunk produced from a partially-parsed (error
// recovered) region of the source tree (§4.A edge cases).
const MetadataPartial = "partial"

// Chunk is a semantic unit extracted from one file (§3).
type Chunk struct {
	ID         string
	FilePath   string
	Language   Language
	Kind       Kind
	Name       string
	Content    string
	StartLine  int
	EndLine    int
	ParentName string
	Metadata   map[string]string
	Embedding  []float32
}

// MakeID builds the spec's opaque stable chunk id:
// {file_path}:{start_line}-{end_line}:{name?}
func MakeID(filePath string, startLine, endLine int, name string) string {
	if name == "" {
		return fmt.Sprintf("%s:%d-%d", filePath, startLine, endLine)
	}
	return fmt.Sprintf("%s:%d-%d:%s", filePath, startLine, endLine, name)
}

// FileRecord tracks a single source file's indexing state (§3).
type FileRecord struct {
	Path         string
	Language     Language
	SizeBytes    int64
	LastModified int64 // unix seconds
	ContentHash  string
	ChunkCount   int
}

// Entity is a registry record over chunks, used for cross-linking (§3).
type Entity struct {
	Name         string
	Kind         Kind
	WikiPath     string
	DefiningFile string
	Aliases      []string
}

// WikiPage is one generated markdown page (§3).
type WikiPage struct {
	Path        string
	Title       string
	Content     string
	GeneratedAt int64
}

// LineRange records a file's relevant line span within a page.
type LineRange struct {
	Start int
	End   int
}

// WikiPageStatus is persisted evidence of a prior page generation (§3).
type WikiPageStatus struct {
	Path         string
	SourceFiles  []string
	SourceHashes map[string]string
	ContentHash  string
	GeneratedAt  int64
	LineInfo     map[string]LineRange
}

// WikiGenerationStatus is the persisted status document for a whole run (§3).
type WikiGenerationStatus struct {
	RepoPath        string
	GeneratedAt     int64
	TotalPages      int
	IndexStatusHash string
	Pages           map[string]WikiPageStatus
}

// SearchResult pairs a chunk with its cosine similarity score (§3).
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// ResearchStep names the deep-research pipeline's linear states (§4.E).
type ResearchStep string

const (
	StepDecomposition    ResearchStep = "DECOMPOSITION"
	StepRetrieval        ResearchStep = "RETRIEVAL"
	StepGapAnalysis      ResearchStep = "GAP_ANALYSIS"
	StepRefinedRetrieval ResearchStep = "REFINED_RETRIEVAL"
	StepSynthesis        ResearchStep = "SYNTHESIS"
	StepCancelled        ResearchStep = "CANCELLED"
)

// ResearchProgressEvent is emitted to the progress sink at every step (§3).
type ResearchProgressEvent struct {
	Step       ResearchStep
	StepNumber int
	DurationMS int64
	Payload    any
}

// SubQuestionCategory is the closed set a decomposed sub-question may carry.
type SubQuestionCategory string

const (
	CategoryImplementation SubQuestionCategory = "IMPLEMENTATION"
	CategoryArchitecture   SubQuestionCategory = "ARCHITECTURE"
	CategoryUsage          SubQuestionCategory = "USAGE"
	CategoryIntegration    SubQuestionCategory = "INTEGRATION"
	CategoryEdgeCases      SubQuestionCategory = "EDGE_CASES"
)

// NormalizeCategory maps an unrecognised category to IMPLEMENTATION (§3).
func NormalizeCategory(s string) SubQuestionCategory {
	switch SubQuestionCategory(s) {
	case CategoryArchitecture, CategoryUsage, CategoryIntegration, CategoryEdgeCases:
		return SubQuestionCategory(s)
	default:
		return CategoryImplementation
	}
}

// SubQuestion is one decomposed question from the DECOMPOSITION step (§3).
type SubQuestion struct {
	Question  string
	Category  SubQuestionCategory
	Rationale string
}

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the client default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bloggpt/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LLMConfig holds settings for the chat-completion and embedding provider.
type LLMConfig struct {
	// APIKey is the provider key (OPENAI_API_KEY).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint for OpenAI-compatible gateways.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// DraftModel writes sections and drives the agent.
	DraftModel string `json:"draft_model" yaml:"draft_model" mapstructure:"draft_model"`

	// RewriteModel polishes the combined draft.
	RewriteModel string `json:"rewrite_model" yaml:"rewrite_model" mapstructure:"rewrite_model"`

	// SummaryModel condenses fetched pages.
	SummaryModel string `json:"summary_model" yaml:"summary_model" mapstructure:"summary_model"`

	// EmbeddingModel embeds chunks for the retrieval variant.
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model" mapstructure:"embedding_model"`
}

// SearchConfig holds settings for the web search client.
type SearchConfig struct {
	// APIKey is the Custom Search API key (GOOGLE_API_KEY).
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// EngineID is the programmable search engine id (GOOGLE_CSE_ID).
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty" mapstructure:"engine_id"`

	// PageSize is the number of results requested per page (max 10).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
}

// FetchConfig holds settings for the web content fetcher.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// RequestsPerSecond bounds outgoing page fetches. Zero disables limiting.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// DraftVariant selects the Section-Drafter implementation.
type DraftVariant string

const (
	VariantAgent     DraftVariant = "agent"
	VariantRetrieval DraftVariant = "retrieval"
)

// DraftConfig holds settings for section drafting.
type DraftConfig struct {
	// Variant selects agent or retrieval drafting.
	Variant DraftVariant `json:"variant" yaml:"variant" mapstructure:"variant"`

	// MaxIterations caps the agent's reasoning/tool-call loop.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`

	// ContextResults is how many page summaries the search tool gathers.
	ContextResults int `json:"context_results" yaml:"context_results" mapstructure:"context_results"`

	// ExtractResults is how many page texts the retrieval variant gathers per section.
	ExtractResults int `json:"extract_results" yaml:"extract_results" mapstructure:"extract_results"`

	// SummaryWordCap truncates text before summarization.
	SummaryWordCap int `json:"summary_word_cap" yaml:"summary_word_cap" mapstructure:"summary_word_cap"`

	// ChunkSize and ChunkOverlap size the token window for embedding.
	ChunkSize    int `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap" mapstructure:"chunk_overlap"`

	// EmbedBatchSize is the number of chunks per embedding request.
	EmbedBatchSize int `json:"embed_batch_size" yaml:"embed_batch_size" mapstructure:"embed_batch_size"`

	// TopK and MinScore control retrieval.
	TopK     int     `json:"top_k" yaml:"top_k" mapstructure:"top_k"`
	MinScore float64 `json:"min_score" yaml:"min_score" mapstructure:"min_score"`
}

// VectorBackend identifies the vector index implementation.
type VectorBackend string

const (
	VectorSQLite   VectorBackend = "sqlite"
	VectorPGVector VectorBackend = "pgvector"
)

// VectorConfig holds settings for the retrieval variant's vector index.
type VectorConfig struct {
	// Backend selects sqlite (local file) or pgvector (Postgres).
	Backend VectorBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// DSN is the database location: a file path for sqlite, a URL for pgvector.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	// Index names the table (pgvector) or database file stem (sqlite).
	Index string `json:"index" yaml:"index" mapstructure:"index"`

	// Dimension is the embedding width.
	Dimension int `json:"dimension" yaml:"dimension" mapstructure:"dimension"`

	// PollInterval is the delay between readiness checks.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`
}

// OutputConfig holds settings for persisted artifacts.
type OutputConfig struct {
	// Dir receives draft_<n>.md, complete_draft.md and the final blog.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// FinalFile is the final blog filename inside Dir.
	FinalFile string `json:"final_file" yaml:"final_file" mapstructure:"final_file"`

	// HTML also renders the final blog to HTML next to FinalFile.
	HTML bool `json:"html" yaml:"html" mapstructure:"html"`
}

// Config groups all settings for a run. It is built once at startup and
// passed by reference into each component.
type Config struct {
	LogLevel string       `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
	LLM      LLMConfig    `json:"llm" yaml:"llm" mapstructure:"llm"`
	Search   SearchConfig `json:"search" yaml:"search" mapstructure:"search"`
	Fetch    FetchConfig  `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Draft    DraftConfig  `json:"draft" yaml:"draft" mapstructure:"draft"`
	Vector   VectorConfig `json:"vector" yaml:"vector" mapstructure:"vector"`
	Output   OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
}

// DefaultConfig returns the settings the pipeline runs with when nothing
// is configured.
func DefaultConfig() Config {
	return Config{
		LogLevel: "INFO",
		LLM: LLMConfig{
			DraftModel:     "gpt-4-0613",
			RewriteModel:   "gpt-4-0613",
			SummaryModel:   "gpt-3.5-turbo-16k-0613",
			EmbeddingModel: "text-embedding-ada-002",
		},
		Search: SearchConfig{
			PageSize: 10,
		},
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "bloggpt/0.1",
			},
			RequestsPerSecond: 2,
			MaxBodyBytes:      20 << 20,
		},
		Draft: DraftConfig{
			Variant:        VariantAgent,
			MaxIterations:  4,
			ContextResults: 4,
			ExtractResults: 10,
			SummaryWordCap: 12000,
			ChunkSize:      300,
			ChunkOverlap:   100,
			EmbedBatchSize: 16,
			TopK:           10,
			MinScore:       0.85,
		},
		Vector: VectorConfig{
			Backend:      VectorSQLite,
			Index:        "bloggpt",
			Dimension:    1536,
			PollInterval: 5 * time.Second,
		},
		Output: OutputConfig{
			Dir:       "outputs",
			FinalFile: "blog.md",
		},
	}
}

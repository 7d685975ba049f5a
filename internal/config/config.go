package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text"`

	// Inference endpoint (OpenAI-compatible).
	BaseURL          string        `env:"BASE_URL" envDefault:"http://localhost:8080/v1"`
	APIKey           string        `env:"API_KEY"`
	OCRModel         string        `env:"OCR_MODEL" envDefault:"Llama-4-Maverick-17B-128E-Instruct-FP8"`
	ChatModel        string        `env:"CHAT_MODEL" envDefault:"Llama-4-Maverick-17B-128E-Instruct-FP8"`
	EmbeddingBaseURL string        `env:"EMBEDDING_BASE_URL"`
	EmbeddingModel   string        `env:"EMBEDDING_MODEL" envDefault:"BAAI/bge-large-en-v1.5"`
	InferenceTimeout time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"120s"`
	InferenceRPS     float64       `env:"INFERENCE_RPS" envDefault:"0"`
	InferenceBurst   int           `env:"INFERENCE_BURST" envDefault:"1"`

	// Vector size of the embedding model. 0 means probe the model at startup.
	VectorSize int `env:"VECTOR_SIZE" envDefault:"0"`

	// OCR pipeline.
	DPIScale                 float64       `env:"OCR_DPI_SCALE" envDefault:"1.5"`
	JPEGQuality              int           `env:"JPEG_QUALITY" envDefault:"90"`
	OCRMaxTokens             int           `env:"OCR_MAX_TOKENS" envDefault:"4000"`
	OCRConcurrency           int           `env:"OCR_CONCURRENCY" envDefault:"8"`
	OCRMaxAttempts           int           `env:"OCR_MAX_ATTEMPTS" envDefault:"3"`
	OCRBackoffBase           time.Duration `env:"OCR_BACKOFF_BASE" envDefault:"1s"`
	CorrectionEnabled        bool          `env:"CORRECTION_ENABLED" envDefault:"true"`
	CorrectionStructureGuard bool          `env:"CORRECTION_STRUCTURE_GUARD" envDefault:"true"`

	// Indexing and retrieval.
	ChunkSize       int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap    int `env:"CHUNK_OVERLAP" envDefault:"200"`
	EmbedBatchSize  int `env:"EMBED_BATCH_SIZE" envDefault:"64"`
	UpsertBatchSize int `env:"UPSERT_BATCH_SIZE" envDefault:"100"`
	TopK            int `env:"TOP_K_RESULTS" envDefault:"5"`
	SourceMaxChars  int `env:"SOURCE_MAX_CHARS" envDefault:"1500"`
	AnswerMaxTokens int `env:"ANSWER_MAX_TOKENS" envDefault:"2000"`

	// Vector store.
	VectorBackend string `env:"VECTOR_BACKEND" envDefault:"qdrant"`
	IndexName     string `env:"INDEX_NAME" envDefault:"documents"`
	QdrantURL     string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	QdrantAPIKey  string `env:"QDRANT_API_KEY"`
	QdrantUseTLS  bool   `env:"QDRANT_USE_TLS" envDefault:"false"`
	ChromemPath   string `env:"CHROMEM_PATH"`

	// Local state.
	DBPath      string `env:"DB_PATH" envDefault:"./data/scanrag.db"`
	AuditLogDir string `env:"AUDIT_LOG_DIR" envDefault:"logs/api_responses"`

	// Optional archive of uploaded originals. Disabled when MinioEndpoint is empty.
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"scanrag-originals"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// HTTP server.
	APIHost     string `env:"API_HOST" envDefault:"0.0.0.0"`
	APIPort     string `env:"API_PORT" envDefault:"8000"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB" envDefault:"64"`
}

// Load reads configuration from environment variables and returns a Config struct.
// If a .env file exists in the current directory or one of its parents, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.EmbeddingBaseURL == "" {
		cfg.EmbeddingBaseURL = cfg.BaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.AuditLogDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	return cfg, nil
}

// Validate checks field ranges and cross-field invariants.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("CHUNK_OVERLAP must not be negative")
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.DPIScale <= 0 {
		return fmt.Errorf("OCR_DPI_SCALE must be greater than 0")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEG_QUALITY must be between 1 and 100")
	}
	if c.OCRMaxTokens <= 0 {
		return fmt.Errorf("OCR_MAX_TOKENS must be greater than 0")
	}
	if c.OCRMaxAttempts <= 0 {
		return fmt.Errorf("OCR_MAX_ATTEMPTS must be greater than 0")
	}
	if c.OCRConcurrency < 0 {
		return fmt.Errorf("OCR_CONCURRENCY must not be negative")
	}
	if c.EmbedBatchSize <= 0 || c.UpsertBatchSize <= 0 {
		return fmt.Errorf("EMBED_BATCH_SIZE and UPSERT_BATCH_SIZE must be greater than 0")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K_RESULTS must be greater than 0")
	}
	if c.SourceMaxChars <= 0 {
		return fmt.Errorf("SOURCE_MAX_CHARS must be greater than 0")
	}
	if c.VectorSize < 0 {
		return fmt.Errorf("VECTOR_SIZE must not be negative")
	}
	switch c.VectorBackend {
	case "qdrant", "chromem":
	default:
		return fmt.Errorf("VECTOR_BACKEND must be qdrant or chromem, got %q", c.VectorBackend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.IndexName == "" {
		return fmt.Errorf("INDEX_NAME is required")
	}
	if c.MinioEndpoint != "" && (c.MinioAccessKey == "" || c.MinioSecretKey == "") {
		return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}
	return nil
}

// Addr returns the host:port the API server binds to.
func (c *Config) Addr() string {
	return c.APIHost + ":" + c.APIPort
}

// ArchiveEnabled reports whether uploaded originals are archived to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.MinioEndpoint != ""
}

// Package config loads clinscribe configuration from the environment,
// with an optional YAML file layered on top.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreSQLite  = "sqlite"
	StoreSurreal = "surrealdb"
)

// Transcription backends.
const (
	TranscriberOpenAI = "openai"
	TranscriberGemini = "gemini"
)

// LLM providers for summarization.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Config holds all configuration values.
type Config struct {
	// Record store
	StoreBackend string `yaml:"store_backend"`
	SQLitePath   string `yaml:"sqlite_path"`

	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Transcription gateway
	Transcriber  string `yaml:"transcriber"`
	WhisperModel string `yaml:"whisper_model"`
	GeminiModel  string `yaml:"gemini_model"`
	GeminiAPIKey string `yaml:"gemini_api_key"`

	// Summarization gateway
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OllamaHost      string `yaml:"ollama_host"`

	// Knowledge lookup embeddings
	EmbeddingModel string `yaml:"embedding_model"`
	VoyageAPIKey   string `yaml:"voyage_api_key"`

	// Diagnosis-line markers scanned in summaries, one per supported
	// language. Matching is case-insensitive.
	DiagnosisMarkers []string `yaml:"diagnosis_markers"`

	// GatewayTimeout bounds each external transcription/summarization call.
	GatewayTimeout time.Duration `yaml:"gateway_timeout"`

	// Logging
	LogFile      string     `yaml:"log_file"`
	LogLevelName string     `yaml:"log_level"`
	LogLevel     slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables. If CLINSCRIBE_CONFIG
// points to a YAML file, its values override the environment.
func Load() (Config, error) {
	cfg := Config{
		StoreBackend: getEnv("CLINSCRIBE_STORE", StoreSQLite),
		SQLitePath:   getEnv("CLINSCRIBE_SQLITE_PATH", "clinscribe.db"),

		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "clinscribe"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "sessions"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		Transcriber:  getEnv("CLINSCRIBE_TRANSCRIBER", TranscriberOpenAI),
		WhisperModel: getEnv("CLINSCRIBE_WHISPER_MODEL", "whisper-1"),
		GeminiModel:  getEnv("CLINSCRIBE_GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		LLMProvider:     getEnv("CLINSCRIBE_LLM_PROVIDER", ProviderOpenAI),
		LLMModel:        getEnv("CLINSCRIBE_LLM_MODEL", "gpt-4o"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),

		EmbeddingModel: getEnv("CLINSCRIBE_EMBEDDING_MODEL", "all-minilm:l6-v2"),
		VoyageAPIKey:   getEnv("VOYAGE_API_KEY", ""),

		DiagnosisMarkers: splitList(getEnv("CLINSCRIBE_DIAGNOSIS_MARKERS", "possible,可能")),

		GatewayTimeout: parseDuration(getEnv("CLINSCRIBE_GATEWAY_TIMEOUT", "120s")),

		LogFile:  getEnv("CLINSCRIBE_LOG_FILE", "/tmp/clinscribe.log"),
		LogLevel: parseLogLevel(getEnv("CLINSCRIBE_LOG_LEVEL", "INFO")),
	}

	if path := os.Getenv("CLINSCRIBE_CONFIG"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}

// MergeFile overlays values from a YAML config file.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if c.LogLevelName != "" {
		c.LogLevel = parseLogLevel(c.LogLevelName)
	}
	return nil
}

// Validate checks for settings that would fail at first use.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQLite, StoreSurreal:
	default:
		return fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}

	switch c.Transcriber {
	case TranscriberOpenAI, TranscriberGemini:
	default:
		return fmt.Errorf("unknown transcriber: %q", c.Transcriber)
	}

	switch c.LLMProvider {
	case ProviderOpenAI, ProviderAnthropic, ProviderOllama:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.LLMProvider)
	}

	if len(c.DiagnosisMarkers) == 0 {
		return fmt.Errorf("at least one diagnosis marker is required")
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("gateway timeout must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

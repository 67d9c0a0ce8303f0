// Package embedding provides text embedding generation with multiple backend support.
package embedding

import (
	"context"
	"fmt"
)

// Embedder defines the interface for text embedding providers.
// Implementations include Ollama (local) and Voyage AI (API).
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// More efficient than multiple Embed calls for bulk ingestion.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the name of the embedding model being used.
	Model() string

	// Dimension returns the embedding vector dimension.
	// Must match the HNSW index dimension in the knowledge table schema.
	Dimension() int
}

// ProviderType identifies the embedding provider.
type ProviderType string

const (
	// ProviderOllama uses a local Ollama server for embeddings.
	ProviderOllama ProviderType = "ollama"

	// ProviderVoyage uses the Voyage AI embeddings API.
	ProviderVoyage ProviderType = "voyage"
)

// Config holds configuration for creating an Embedder.
type Config struct {
	// Provider specifies which embedding backend to use.
	Provider ProviderType

	// Model is the embedding model name (provider-specific).
	// Ollama: "all-minilm:l6-v2" (384-dim), "nomic-embed-text" (768-dim)
	// Voyage: "voyage-3" (1024-dim)
	Model string

	// ExpectedDimension is the required output dimension.
	// Set to 0 to use the provider's default.
	ExpectedDimension int

	// VoyageAPIKey authenticates against the Voyage AI API.
	VoyageAPIKey string
}

// New creates an Embedder based on the provided configuration.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return NewOllamaClient(cfg.Model, cfg.ExpectedDimension)

	case ProviderVoyage:
		if cfg.VoyageAPIKey == "" {
			return nil, fmt.Errorf("voyage provider requires API key")
		}
		return NewVoyageClient(cfg.VoyageAPIKey, cfg.Model, cfg.ExpectedDimension)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

// DefaultOllama returns the default Ollama embedder (all-minilm:l6-v2, 384-dim).
func DefaultOllama() (Embedder, error) {
	return NewOllamaClient("", 0)
}

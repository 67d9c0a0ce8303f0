package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelis/clinscribe/internal/config"
	"github.com/avelis/clinscribe/internal/db"
	"github.com/avelis/clinscribe/internal/embedding"
	"github.com/avelis/clinscribe/internal/metrics"
	"github.com/avelis/clinscribe/internal/models"
)

// DefaultLimit is the number of Q&A pairs returned when the caller does
// not specify one.
const DefaultLimit = 3

// VectorStore is the slice of the database client the provider needs.
type VectorStore interface {
	SearchKnowledge(ctx context.Context, embedding []float32, limit int) ([]db.KnowledgeEntry, error)
	CreateKnowledge(ctx context.Context, question, answer string, embedding []float32) error
}

// VectorProvider retrieves Q&A pairs by embedding the summary and
// running a nearest-neighbour search against the knowledge table.
type VectorProvider struct {
	store    VectorStore
	embedder embedding.Embedder
	metrics  *metrics.Collector
	logger   *slog.Logger
}

var _ Provider = (*VectorProvider)(nil)

// NewVectorProvider creates a provider backed by the given store and
// embedder.
func NewVectorProvider(store VectorStore, embedder embedding.Embedder, collector *metrics.Collector, logger *slog.Logger) *VectorProvider {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorProvider{store: store, embedder: embedder, metrics: collector, logger: logger}
}

// NewEmbedder builds the embedder described by the configuration:
// Voyage when an API key is set, local Ollama otherwise.
func NewEmbedder(cfg config.Config) (embedding.Embedder, error) {
	embCfg := embedding.Config{Model: cfg.EmbeddingModel}
	if cfg.VoyageAPIKey != "" {
		embCfg.Provider = embedding.ProviderVoyage
		embCfg.VoyageAPIKey = cfg.VoyageAPIKey
	}
	return embedding.New(embCfg)
}

// FromConfig returns the provider for the active store backend: a
// vector provider when a database client is available, otherwise Noop.
// Embedder setup failures degrade to Noop with a warning; knowledge
// lookup is never required for a session to succeed.
func FromConfig(client *db.Client, cfg config.Config, collector *metrics.Collector, logger *slog.Logger) Provider {
	if client == nil {
		return Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	embedder, err := NewEmbedder(cfg)
	if err != nil {
		logger.Warn("embedder unavailable, knowledge lookup disabled", "error", err)
		return Noop{}
	}
	return NewVectorProvider(client, embedder, collector, logger)
}

// Lookup embeds the summary and returns the nearest stored Q&A pairs.
func (p *VectorProvider) Lookup(ctx context.Context, summary string, limit int) ([]models.QA, error) {
	if summary == "" {
		return []models.QA{}, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	vec, err := p.embed(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("embed summary: %w", err)
	}

	entries, err := p.store.SearchKnowledge(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("search knowledge: %w", err)
	}

	pairs := make([]models.QA, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, models.QA{Question: e.Question, Answer: e.Answer})
	}

	p.logger.Debug("knowledge lookup", "matches", len(pairs), "limit", limit)
	return pairs, nil
}

// Add embeds a question and stores the Q&A pair in the knowledge table.
// The question text is embedded (not the answer) so lookups match the
// kinds of questions a summary raises.
func (p *VectorProvider) Add(ctx context.Context, question, answer string) error {
	vec, err := p.embed(ctx, question)
	if err != nil {
		return fmt.Errorf("embed question: %w", err)
	}
	if err := p.store.CreateKnowledge(ctx, question, answer, vec); err != nil {
		return err
	}
	p.logger.Info("knowledge entry added", "model", p.embedder.Model())
	return nil
}

func (p *VectorProvider) embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	p.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
	return vec, nil
}

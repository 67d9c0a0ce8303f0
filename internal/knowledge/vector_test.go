package knowledge

import (
	"context"
	"errors"
	"testing"

	"github.com/avelis/clinscribe/internal/config"
	"github.com/avelis/clinscribe/internal/db"
	"github.com/avelis/clinscribe/internal/embedding"
	"github.com/avelis/clinscribe/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	e.calls++
	return e.vec, e.err
}

func (e *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, e.err
}

func (e *fakeEmbedder) Model() string  { return "fake-model" }
func (e *fakeEmbedder) Dimension() int { return len(e.vec) }

type fakeVectorStore struct {
	entries  []db.KnowledgeEntry
	searched []float32
	created  []db.KnowledgeEntry
	err      error
}

func (s *fakeVectorStore) SearchKnowledge(_ context.Context, emb []float32, limit int) ([]db.KnowledgeEntry, error) {
	s.searched = emb
	if s.err != nil {
		return nil, s.err
	}
	if len(s.entries) > limit {
		return s.entries[:limit], nil
	}
	return s.entries, nil
}

func (s *fakeVectorStore) CreateKnowledge(_ context.Context, question, answer string, emb []float32) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, db.KnowledgeEntry{Question: question, Answer: answer, Embedding: emb})
	return nil
}

func TestLookupReturnsNearestPairs(t *testing.T) {
	st := &fakeVectorStore{entries: []db.KnowledgeEntry{
		{Question: "What are common migraine triggers?", Answer: "Stress and sleep disruption."},
	}}
	emb := &fakeEmbedder{vec: []float32{0.1, 0.2}}
	collector := metrics.NewCollector()
	p := NewVectorProvider(st, emb, collector, nil)

	pairs, err := p.Lookup(context.Background(), "Possible migraine.", 0)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "What are common migraine triggers?", pairs[0].Question)
	assert.Equal(t, []float32{0.1, 0.2}, st.searched)

	snap := collector.Snapshot()
	require.NotNil(t, snap.Embedding, "embedding timing must be recorded")
	assert.Equal(t, int64(1), snap.Embedding.Count)
}

func TestLookupEmptySummarySkipsEmbedding(t *testing.T) {
	emb := &fakeEmbedder{vec: []float32{0.1}}
	p := NewVectorProvider(&fakeVectorStore{}, emb, nil, nil)

	pairs, err := p.Lookup(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.Equal(t, 0, emb.calls)
}

func TestLookupEmbedFailure(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("ollama down")}
	p := NewVectorProvider(&fakeVectorStore{}, emb, nil, nil)

	_, err := p.Lookup(context.Background(), "summary", 3)
	require.Error(t, err)
}

func TestAddRecordsEmbeddingMetrics(t *testing.T) {
	st := &fakeVectorStore{}
	collector := metrics.NewCollector()
	p := NewVectorProvider(st, &fakeEmbedder{vec: []float32{0.5}}, collector, nil)

	err := p.Add(context.Background(), "What causes tinnitus?", "Often noise exposure.")
	require.NoError(t, err)
	require.Len(t, st.created, 1)
	assert.Equal(t, []float32{0.5}, st.created[0].Embedding)

	snap := collector.Snapshot()
	require.NotNil(t, snap.Embedding)
	assert.Equal(t, int64(1), snap.Embedding.Count)
}

func TestNewEmbedderHonorsConfig(t *testing.T) {
	// Voyage key present: the Voyage backend with the configured model.
	emb, err := NewEmbedder(config.Config{
		EmbeddingModel: "voyage-3",
		VoyageAPIKey:   "vk-test",
	})
	require.NoError(t, err)
	_, ok := emb.(*embedding.VoyageClient)
	assert.True(t, ok, "voyage key should select the Voyage backend")
	assert.Equal(t, "voyage-3", emb.Model())

	// No key: local Ollama with the configured model.
	emb, err = NewEmbedder(config.Config{EmbeddingModel: "nomic-embed-text"})
	require.NoError(t, err)
	_, ok = emb.(*embedding.OllamaClient)
	assert.True(t, ok)
	assert.Equal(t, "nomic-embed-text", emb.Model())
}

func TestFromConfigWithoutDatabase(t *testing.T) {
	p := FromConfig(nil, config.Config{}, nil, nil)
	_, ok := p.(Noop)
	assert.True(t, ok, "no database client means the no-op provider")
}

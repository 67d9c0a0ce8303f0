package db

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
)

// KnowledgeEntry is a stored question/answer pair with its embedding.
type KnowledgeEntry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// CreateKnowledge stores a question/answer pair with its embedding vector.
func (c *Client) CreateKnowledge(ctx context.Context, question, answer string, embedding []float32) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE knowledge CONTENT {
			question: $question,
			answer: $answer,
			embedding: $embedding
		}
	`, map[string]any{
		"question":  question,
		"answer":    answer,
		"embedding": embedding,
	})
	if err != nil {
		return fmt.Errorf("create knowledge: %w", wrapQueryError(err))
	}
	return nil
}

// SearchKnowledge returns the entries nearest to the given embedding.
// Uses the HNSW index with ef=40 for better recall.
func (c *Client) SearchKnowledge(ctx context.Context, embedding []float32, limit int) ([]KnowledgeEntry, error) {
	sql := fmt.Sprintf(`
		SELECT question, answer FROM knowledge
		WHERE embedding <|%d,40|> $emb
	`, limit)

	results, err := surrealdb.Query[[]KnowledgeEntry](ctx, c.db, sql, map[string]any{
		"emb": embedding,
	})
	if err != nil {
		return nil, fmt.Errorf("search knowledge: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []KnowledgeEntry{}, nil
	}
	return (*results)[0].Result, nil
}

// CountSessions returns the number of persisted sessions. Used by tests
// and the stats tool.
func (c *Client) CountSessions(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]int](ctx, c.db, `
		SELECT VALUE count() FROM session GROUP ALL
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0], nil
}

// Package knowledge retrieves question/answer pairs related to a session
// summary so reports can include supporting reference material.
package knowledge

import (
	"context"

	"github.com/avelis/clinscribe/internal/models"
)

// Provider looks up reference Q&A relevant to a session summary.
type Provider interface {
	// Lookup returns Q&A pairs related to the summary text. An empty
	// slice means no related material was found.
	Lookup(ctx context.Context, summary string, limit int) ([]models.QA, error)
}

// Noop is a Provider that never returns any material. Used when no
// knowledge base is configured (e.g. the sqlite backend).
type Noop struct{}

// Lookup always returns an empty result.
func (Noop) Lookup(context.Context, string, int) ([]models.QA, error) {
	return []models.QA{}, nil
}

// Package store defines the session record store contract shared by all
// storage backends.
package store

import (
	"context"

	"github.com/avelis/clinscribe/internal/models"
)

// Store persists session records. Records are append-only: there is no
// update or delete operation.
//
// NextID and Insert are safe for concurrent use. NextID allocates from a
// durable sequence, so two concurrent NextID/Insert pairs can never collide
// on the same ID and allocated IDs are never reused, even when a pipeline
// run fails between allocation and insert.
type Store interface {
	// NextID reserves and returns the next session ID.
	NextID(ctx context.Context) (int64, error)

	// Insert appends a new immutable record. Returns ErrDuplicateID if a
	// record with the same ID already exists.
	Insert(ctx context.Context, rec models.SessionRecord) error

	// ListSummary returns {id, date, patient} projections ordered by ID
	// descending (most recent first).
	ListSummary(ctx context.Context) ([]models.SessionSummary, error)

	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id int64) (models.SessionRecord, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/avelis/clinscribe/internal/models"
	"github.com/avelis/clinscribe/internal/store"
)

var _ store.Store = (*Client)(nil)

// sessionRow mirrors the session table layout. The numeric seq field is
// the session ID; the record ID is derived from it (session:<seq>).
type sessionRow struct {
	Seq        int64     `json:"seq"`
	Doctor     string    `json:"doctor"`
	Patient    string    `json:"patient"`
	Date       string    `json:"date"`
	Transcript string    `json:"transcript"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r sessionRow) record() models.SessionRecord {
	return models.SessionRecord{
		ID:         r.Seq,
		Doctor:     r.Doctor,
		Patient:    r.Patient,
		Date:       r.Date,
		Transcript: r.Transcript,
		Summary:    r.Summary,
		Tags:       r.Tags,
		CreatedAt:  r.CreatedAt,
	}
}

// NextID atomically increments the session counter and returns the new
// value. A single UPSERT statement runs as one transaction on the server,
// so concurrent callers always observe distinct values.
func (c *Client) NextID(ctx context.Context) (int64, error) {
	results, err := surrealdb.Query[[]int64](ctx, c.db, `
		UPSERT seq:session SET next += 1 RETURN VALUE next
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("allocate session id: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, fmt.Errorf("allocate session id: empty result")
	}
	return (*results)[0].Result[0], nil
}

// Insert creates an immutable session record under session:<id>.
func (c *Client) Insert(ctx context.Context, rec models.SessionRecord) error {
	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := surrealdb.Query[any](ctx, c.db, `
		CREATE type::thing("session", $id) CONTENT {
			seq: $id,
			doctor: $doctor,
			patient: $patient,
			date: $date,
			transcript: $transcript,
			summary: $summary,
			tags: $tags,
			created_at: $created_at
		}
	`, map[string]any{
		"id":         rec.ID,
		"doctor":     rec.Doctor,
		"patient":    rec.Patient,
		"date":       rec.Date,
		"transcript": rec.Transcript,
		"summary":    rec.Summary,
		"tags":       tags,
		"created_at": createdAt,
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", wrapQueryError(err))
	}
	return nil
}

// ListSummary returns the history projection, newest session first.
func (c *Client) ListSummary(ctx context.Context) ([]models.SessionSummary, error) {
	results, err := surrealdb.Query[[]models.SessionSummary](ctx, c.db, `
		SELECT seq AS id, date, patient FROM session ORDER BY seq DESC
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.SessionSummary{}, nil
	}
	return (*results)[0].Result, nil
}

// Get retrieves a session record by ID.
func (c *Client) Get(ctx context.Context, id int64) (models.SessionRecord, error) {
	results, err := surrealdb.Query[[]sessionRow](ctx, c.db, `
		SELECT * FROM type::thing("session", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("get session: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.SessionRecord{}, fmt.Errorf("session %d: %w", id, store.ErrNotFound)
	}
	return (*results)[0].Result[0].record(), nil
}

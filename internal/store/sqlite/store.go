// Package sqlite implements the session record store on a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avelis/clinscribe/internal/models"
	"github.com/avelis/clinscribe/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
	id         INTEGER PRIMARY KEY,
	doctor     TEXT NOT NULL,
	patient    TEXT NOT NULL,
	date       TEXT NOT NULL,
	transcript TEXT NOT NULL,
	summary    TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '[]',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_seq (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	next INTEGER NOT NULL
);
`

// Store is a SQLite-backed session record store.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (creating if necessary) the database at path and initializes
// the schema. The sequence row is seeded from the highest existing session
// ID so databases written by earlier versions keep allocating past it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection serializes the sequence update with its insert
	// and avoids SQLITE_BUSY under concurrent sessions.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if _, err := db.Exec(`
		INSERT OR IGNORE INTO session_seq (id, next)
		SELECT 1, COALESCE(MAX(id), 0) FROM sessions
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

// NextID reserves the next session ID from the durable sequence.
func (s *Store) NextID(ctx context.Context) (int64, error) {
	var next int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE session_seq SET next = next + 1 WHERE id = 1 RETURNING next`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("allocate session id: %w", err)
	}
	return next, nil
}

// Insert appends a new session record.
func (s *Store) Insert(ctx context.Context, rec models.SessionRecord) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, doctor, patient, date, transcript, summary, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Doctor, rec.Patient, rec.Date, rec.Transcript, rec.Summary,
		string(tags), createdAt.Format(time.RFC3339Nano))
	if err != nil {
		return wrapInsertError(err)
	}
	return nil
}

// ListSummary returns {id, date, patient} for all sessions, newest first.
func (s *Store) ListSummary(ctx context.Context) ([]models.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, patient
		FROM sessions
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []models.SessionSummary
	for rows.Next() {
		var sum models.SessionSummary
		if err := rows.Scan(&sum.ID, &sum.Date, &sum.Patient); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get retrieves a full session record by ID.
func (s *Store) Get(ctx context.Context, id int64) (models.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, doctor, patient, date, transcript, summary, tags, created_at
		FROM sessions
		WHERE id = ?
	`, id)

	var rec models.SessionRecord
	var tags, createdAt string
	err := row.Scan(&rec.ID, &rec.Doctor, &rec.Patient, &rec.Date,
		&rec.Transcript, &rec.Summary, &tags, &createdAt)
	if err == sql.ErrNoRows {
		return models.SessionRecord{}, fmt.Errorf("session %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return models.SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return models.SessionRecord{}, fmt.Errorf("decode tags: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

// wrapInsertError maps the driver's unique-constraint message to the
// store sentinel so callers can use errors.Is.
func wrapInsertError(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", store.ErrDuplicateID, err)
	}
	return fmt.Errorf("insert session: %w", err)
}

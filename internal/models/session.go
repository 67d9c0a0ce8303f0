// Package models defines data structures for clinscribe sessions.
package models

import (
	"fmt"
	"time"
)

// SessionRecord is the single persisted entity: one record per processed
// clinician/patient conversation. Records are append-only; once inserted,
// transcript and summary for a given ID are never mutated. Re-processing a
// conversation creates a new record.
type SessionRecord struct {
	// ID is unique, monotonically increasing, and never reused.
	ID int64 `json:"id"`

	Doctor  string `json:"doctor"`
	Patient string `json:"patient"`

	// Date is the caller-supplied calendar date of the session.
	// Free text, not validated against real calendars.
	Date string `json:"date"`

	// Transcript is the speech-to-text output, or the caller's manual
	// override verbatim. Empty means "nothing was said or supplied",
	// which is a valid state, not an error.
	Transcript string `json:"transcript"`

	// Summary is always derived from Transcript plus metadata by the
	// summarization gateway, returned upstream-verbatim.
	Summary string `json:"summary"`

	// Tags holds the lines of Summary that matched a diagnosis marker,
	// in order of appearance. Advisory only.
	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SessionSummary is the lightweight projection used by history listings.
type SessionSummary struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Patient string `json:"patient"`
}

// Metadata is the caller-supplied session context rendered into prompts
// and report titles.
type Metadata struct {
	Doctor  string
	Patient string
	Date    string
}

// Info renders the canonical one-line metadata string used as the prompt
// prefix and report title line.
func (m Metadata) Info() string {
	return fmt.Sprintf("Doctor: %s; Patient: %s; Date: %s", m.Doctor, m.Patient, m.Date)
}

// Metadata returns the record's session context.
func (r SessionRecord) Metadata() Metadata {
	return Metadata{Doctor: r.Doctor, Patient: r.Patient, Date: r.Date}
}

// QA is one related-knowledge pair attached to a rendered report.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

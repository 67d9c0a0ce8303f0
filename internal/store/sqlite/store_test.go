package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/avelis/clinscribe/internal/models"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func testRecord(id int64, patient string) models.SessionRecord {
	return models.SessionRecord{
		ID:         id,
		Doctor:     "Dr. Ma",
		Patient:    patient,
		Date:       "2026-08-29",
		Transcript: "Doctor: How are you?\nPatient: Better, thanks.",
		Summary:    "Patient improving.\nPossible viral infection.",
		Tags:       []string{"Possible viral infection."},
		CreatedAt:  time.Now().UTC(),
	}
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.NextID(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	want := testRecord(id, "Li")
	require.NoError(t, s.Insert(ctx, want))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want.Patient, got.Patient)
	assert.Equal(t, want.Transcript, got.Transcript)
	assert.Equal(t, want.Summary, got.Summary)
	assert.Equal(t, want.Tags, got.Tags)
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord(1, "Li")
	require.NoError(t, s.Insert(ctx, rec))

	err := s.Insert(ctx, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

func TestListSummaryNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, patient := range []string{"Li", "Wang", "Chen"} {
		id, err := s.NextID(ctx)
		require.NoError(t, err)
		require.NoError(t, s.Insert(ctx, testRecord(id, patient)))
	}

	summaries, err := s.ListSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, int64(3), summaries[0].ID)
	assert.Equal(t, "Chen", summaries[0].Patient)
	assert.Equal(t, int64(1), summaries[2].ID)
	assert.Equal(t, "Li", summaries[2].Patient)
}

// Concurrent NextID+Insert pairs must never collide: every goroutine
// gets a distinct id and every insert succeeds.
func TestConcurrentAllocation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	ids := make(chan int64, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.NextID(ctx)
			if err != nil {
				errs <- err
				return
			}
			if err := s.Insert(ctx, testRecord(id, "Li")); err != nil {
				errs <- err
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(errs)
	close(ids)

	for err := range errs {
		t.Fatalf("concurrent allocation failed: %v", err)
	}

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

// Reopening a database written before the sequence table existed must
// keep allocating past the highest stored id.
func TestSequenceSeedsFromExistingRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Insert(ctx, testRecord(5, "Li")))
	// Drop the sequence row to simulate a pre-sequence database.
	_, err = s.db.Exec(`DELETE FROM session_seq`)
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close(ctx)

	id, err := s.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
}

func TestEmptyTagsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord(1, "Li")
	rec.Tags = []string{}
	require.NoError(t, s.Insert(ctx, rec))

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

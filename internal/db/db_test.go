// Package db provides integration tests for SurrealDB operations.
package db

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avelis/clinscribe/internal/models"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		// No container in short mode; every test body skips.
		os.Exit(m.Run())
	}

	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// Workaround: testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func requireIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	require.NoError(t, testDB.WipeData(context.Background()))
}

// dummyEmbedding returns a 384-dim vector matching the HNSW index.
func dummyEmbedding(seed float32) []float32 {
	embedding := make([]float32, 384)
	for i := range embedding {
		embedding[i] = seed + float32(i)/384.0
	}
	return embedding
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
	requireIntegration(t)
	ctx := context.Background()

	id, err := testDB.NextID(ctx)
	require.NoError(t, err)
	require.NoError(t, testDB.Insert(ctx, testRecord(id, "Li")))

	got, err := testDB.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Li", got.Patient)
	assert.Equal(t, "Patient improving.\nPossible viral infection.", got.Summary)
	assert.Equal(t, []string{"Possible viral infection."}, got.Tags)
}

func TestGetNotFound(t *testing.T) {
	requireIntegration(t)

	_, err := testDB.Get(context.Background(), 9999)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertDuplicateID(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	rec := testRecord(1, "Li")
	require.NoError(t, testDB.Insert(ctx, rec))

	err := testDB.Insert(ctx, rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

func TestListSummaryNewestFirst(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	for _, patient := range []string{"Li", "Wang", "Chen"} {
		id, err := testDB.NextID(ctx)
		require.NoError(t, err)
		require.NoError(t, testDB.Insert(ctx, testRecord(id, patient)))
	}

	summaries, err := testDB.ListSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Chen", summaries[0].Patient)
	assert.Greater(t, summaries[0].ID, summaries[1].ID)
	assert.Greater(t, summaries[1].ID, summaries[2].ID)
}

func TestConcurrentNextID(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := testDB.NextID(ctx)
			if err != nil {
				errs <- err
				return
			}
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Fatalf("NextID failed: %v", err)
	}

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestKnowledgeSearch(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	require.NoError(t, testDB.CreateKnowledge(ctx,
		"What are common migraine triggers?",
		"Stress, sleep disruption, and certain foods.",
		dummyEmbedding(0)))
	require.NoError(t, testDB.CreateKnowledge(ctx,
		"How is hypertension managed?",
		"Lifestyle changes and, when indicated, medication.",
		dummyEmbedding(5)))

	entries, err := testDB.SearchKnowledge(ctx, dummyEmbedding(0), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "What are common migraine triggers?", entries[0].Question)
}

func TestCountSessions(t *testing.T) {
	requireIntegration(t)
	ctx := context.Background()

	count, err := testDB.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	id, err := testDB.NextID(ctx)
	require.NoError(t, err)
	require.NoError(t, testDB.Insert(ctx, testRecord(id, "Li")))

	count, err = testDB.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

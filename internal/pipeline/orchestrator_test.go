package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/avelis/clinscribe/internal/models"
	"github.com/avelis/clinscribe/internal/report"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	next     int64
	inserted []models.SessionRecord
	nextErr  error
	insErr   error
}

var _ store.Store = (*fakeStore)(nil)

func (s *fakeStore) NextID(context.Context) (int64, error) {
	if s.nextErr != nil {
		return 0, s.nextErr
	}
	s.next++
	return s.next, nil
}

func (s *fakeStore) Insert(_ context.Context, rec models.SessionRecord) error {
	if s.insErr != nil {
		return s.insErr
	}
	s.inserted = append(s.inserted, rec)
	return nil
}

func (s *fakeStore) ListSummary(context.Context) ([]models.SessionSummary, error) {
	return nil, nil
}

func (s *fakeStore) Get(context.Context, int64) (models.SessionRecord, error) {
	return models.SessionRecord{}, store.ErrNotFound
}

func (s *fakeStore) Close(context.Context) error { return nil }

type fakeGateway struct {
	text  string
	err   error
	calls int
}

func (g *fakeGateway) Transcribe(_ context.Context, _ string) (string, error) {
	g.calls++
	return g.text, g.err
}

type fakeSummarizer struct {
	summary     string
	err         error
	transcripts []string
}

func (s *fakeSummarizer) Summarize(_ context.Context, transcript string, _ models.Metadata) (string, error) {
	s.transcripts = append(s.transcripts, transcript)
	return s.summary, s.err
}

type fakeRenderer struct {
	out []byte
	err error
	doc report.Document
}

func (r *fakeRenderer) Render(doc report.Document) ([]byte, error) {
	r.doc = doc
	return r.out, r.err
}

func (r *fakeRenderer) Ext() string { return "pdf" }

type failingKnowledge struct{}

func (failingKnowledge) Lookup(context.Context, string, int) ([]models.QA, error) {
	return nil, errors.New("vector index offline")
}

func newTestOrchestrator(st *fakeStore, gw *fakeGateway, sum *fakeSummarizer, r *fakeRenderer) *Orchestrator {
	return New(Deps{
		Store:      st,
		Gateway:    gw,
		Summarizer: sum,
		Renderer:   r,
		Markers:    []string{"possible", "可能"},
	})
}

func TestProcessTextOverrideSkipsGateway(t *testing.T) {
	st := &fakeStore{}
	gw := &fakeGateway{text: "should not be used"}
	sum := &fakeSummarizer{summary: "Stable condition."}
	r := &fakeRenderer{out: []byte("doc")}
	o := newTestOrchestrator(st, gw, sum, r)

	res, err := o.Process(context.Background(), Request{
		Doctor:  "Dr. Ma",
		Patient: "Li",
		Date:    "2026-08-29",
		Text:    "Patient describes mild headache.",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, gw.calls, "gateway must not run when text override is set")
	assert.Equal(t, "Patient describes mild headache.", res.Record.Transcript)
	assert.Equal(t, int64(1), res.Record.ID)
	assert.Equal(t, []byte("doc"), res.Report)
}

func TestProcessNoAudioYieldsEmptyTranscript(t *testing.T) {
	st := &fakeStore{}
	gw := &fakeGateway{}
	sum := &fakeSummarizer{summary: "No dialogue recorded."}
	r := &fakeRenderer{out: []byte("doc")}
	o := newTestOrchestrator(st, gw, sum, r)

	res, err := o.Process(context.Background(), Request{Doctor: "Dr. Ma", Patient: "Li"})
	require.NoError(t, err)

	assert.Equal(t, 0, gw.calls)
	assert.Equal(t, "", res.Record.Transcript)
	require.Len(t, sum.transcripts, 1, "summarizer still runs on an empty transcript")
	assert.Equal(t, "", sum.transcripts[0])
	require.Len(t, st.inserted, 1)
}

func TestProcessTranscriptionFailureAborts(t *testing.T) {
	st := &fakeStore{}
	gw := &fakeGateway{err: errors.New("whisper unavailable")}
	sum := &fakeSummarizer{}
	o := newTestOrchestrator(st, gw, sum, &fakeRenderer{})

	_, err := o.Process(context.Background(), Request{AudioPath: "/tmp/visit.wav"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranscription)
	assert.Empty(t, st.inserted, "nothing persisted on transcription failure")
	assert.Empty(t, sum.transcripts, "summarizer not reached")
}

func TestProcessSummarizationFailureAbortsBeforePersist(t *testing.T) {
	st := &fakeStore{}
	sum := &fakeSummarizer{err: errors.New("model overloaded")}
	o := newTestOrchestrator(st, &fakeGateway{}, sum, &fakeRenderer{})

	_, err := o.Process(context.Background(), Request{Text: "some dialogue"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSummarization)
	assert.Empty(t, st.inserted, "nothing persisted on summarization failure")
}

func TestProcessRenderFailureKeepsRecord(t *testing.T) {
	st := &fakeStore{}
	sum := &fakeSummarizer{summary: "Summary text."}
	r := &fakeRenderer{err: errors.New("font missing")}
	o := newTestOrchestrator(st, &fakeGateway{}, sum, r)

	res, err := o.Process(context.Background(), Request{Text: "dialogue"})
	require.NoError(t, err, "render failure is not a pipeline error")

	require.Error(t, res.RenderErr)
	assert.ErrorIs(t, res.RenderErr, ErrRender)
	assert.Nil(t, res.Report)
	require.Len(t, st.inserted, 1, "record stays durable despite render failure")
	assert.Equal(t, res.Record.ID, st.inserted[0].ID)
}

func TestProcessExtractsDiagnosisTags(t *testing.T) {
	st := &fakeStore{}
	sum := &fakeSummarizer{summary: "Findings noted.\nPossible migraine.\n可能为偏头痛。\nFollow up in two weeks."}
	o := newTestOrchestrator(st, &fakeGateway{}, sum, &fakeRenderer{out: []byte("doc")})

	res, err := o.Process(context.Background(), Request{Text: "dialogue"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Possible migraine.", "可能为偏头痛。"}, res.Record.Tags)
}

func TestProcessKnowledgeFailureIsBestEffort(t *testing.T) {
	st := &fakeStore{}
	sum := &fakeSummarizer{summary: "Summary."}
	r := &fakeRenderer{out: []byte("doc")}
	o := New(Deps{
		Store:      st,
		Gateway:    &fakeGateway{},
		Summarizer: sum,
		Renderer:   r,
		Knowledge:  failingKnowledge{},
	})

	res, err := o.Process(context.Background(), Request{Text: "dialogue"})
	require.NoError(t, err, "knowledge failure never fails the pipeline")
	assert.Empty(t, res.Knowledge)
	assert.Equal(t, []byte("doc"), res.Report)
}

// stagingGateway captures the staged file so tests can verify its
// contents and its removal.
type stagingGateway struct {
	text    string
	err     error
	path    string
	content []byte
}

func (g *stagingGateway) Transcribe(_ context.Context, audioPath string) (string, error) {
	g.path = audioPath
	g.content, _ = os.ReadFile(audioPath)
	return g.text, g.err
}

func TestProcessStagesAudioBytes(t *testing.T) {
	st := &fakeStore{}
	gw := &stagingGateway{text: "Doctor: How are you?"}
	sum := &fakeSummarizer{summary: "Summary."}
	o := New(Deps{
		Store:      st,
		Gateway:    gw,
		Summarizer: sum,
		Renderer:   &fakeRenderer{out: []byte("doc")},
	})

	res, err := o.Process(context.Background(), Request{
		Patient:  "Li",
		Audio:    []byte("RIFF fake audio"),
		AudioExt: ".mp3",
	})
	require.NoError(t, err)

	require.NotEmpty(t, gw.path, "gateway must receive a staged file")
	assert.Equal(t, ".mp3", filepath.Ext(gw.path))
	assert.Equal(t, "RIFF fake audio", string(gw.content), "staged file holds the request bytes")
	assert.Equal(t, "Doctor: How are you?", res.Record.Transcript)

	_, statErr := os.Stat(gw.path)
	assert.True(t, os.IsNotExist(statErr), "staged file removed after processing")
}

func TestProcessStagedAudioCleanupOnGatewayFailure(t *testing.T) {
	st := &fakeStore{}
	gw := &stagingGateway{err: errors.New("whisper unavailable")}
	o := New(Deps{
		Store:      st,
		Gateway:    gw,
		Summarizer: &fakeSummarizer{},
		Renderer:   &fakeRenderer{},
	})

	_, err := o.Process(context.Background(), Request{Audio: []byte("fake audio")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranscription)
	assert.Empty(t, st.inserted)

	require.NotEmpty(t, gw.path)
	_, statErr := os.Stat(gw.path)
	assert.True(t, os.IsNotExist(statErr), "staged file removed even when transcription fails")
}

func TestProcessStoreFailureAborts(t *testing.T) {
	st := &fakeStore{insErr: store.ErrDuplicateID}
	sum := &fakeSummarizer{summary: "Summary."}
	o := newTestOrchestrator(st, &fakeGateway{}, sum, &fakeRenderer{})

	_, err := o.Process(context.Background(), Request{Text: "dialogue"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrDuplicateID)
}

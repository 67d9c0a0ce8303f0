// Package pipeline runs a clinical session through capture, transcription,
// summarization, persistence, and report rendering.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avelis/clinscribe/internal/knowledge"
	"github.com/avelis/clinscribe/internal/metrics"
	"github.com/avelis/clinscribe/internal/models"
	"github.com/avelis/clinscribe/internal/report"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/avelis/clinscribe/internal/tags"
	"github.com/avelis/clinscribe/internal/transcribe"
)

// DefaultGatewayTimeout bounds each external call (transcription, LLM,
// knowledge lookup) when no timeout is configured.
const DefaultGatewayTimeout = 120 * time.Second

// Summarizer produces a medical-report style summary for a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, meta models.Metadata) (string, error)
}

// Request describes one session to process. Exactly one of Text,
// AudioPath, or Audio is normally set; Text wins when non-empty, and a
// request with none of them yields an empty transcript.
type Request struct {
	Doctor    string
	Patient   string
	Date      string
	AudioPath string
	Audio     []byte
	AudioExt  string
	Text      string
}

// Result is the outcome of a completed pipeline run. Record is always
// durably stored. Report is the rendered document, or nil when
// RenderErr is set; rendering failures do not roll the record back.
type Result struct {
	Record    models.SessionRecord
	Report    []byte
	Knowledge []models.QA
	RenderErr error
}

// Orchestrator wires the pipeline stages together. All collaborators
// are injected; it holds no ambient state.
type Orchestrator struct {
	store      store.Store
	gateway    transcribe.Gateway
	summarizer Summarizer
	renderer   report.Renderer
	knowledge  knowledge.Provider
	metrics    *metrics.Collector
	logger     *slog.Logger
	markers    []string
	timeout    time.Duration
}

// Deps holds the collaborators for an Orchestrator. Store, Gateway,
// Summarizer, and Renderer are required; the rest default sensibly.
type Deps struct {
	Store      store.Store
	Gateway    transcribe.Gateway
	Summarizer Summarizer
	Renderer   report.Renderer
	Knowledge  knowledge.Provider
	Metrics    *metrics.Collector
	Logger     *slog.Logger
	Markers    []string
	Timeout    time.Duration
}

// New creates an Orchestrator from the given dependencies.
func New(deps Deps) *Orchestrator {
	if deps.Knowledge == nil {
		deps.Knowledge = knowledge.Noop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewCollector()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultGatewayTimeout
	}
	return &Orchestrator{
		store:      deps.Store,
		gateway:    deps.Gateway,
		summarizer: deps.Summarizer,
		renderer:   deps.Renderer,
		knowledge:  deps.Knowledge,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		markers:    deps.Markers,
		timeout:    deps.Timeout,
	}
}

// Process runs one session through the pipeline. The record is stored
// before rendering; a rendering failure is reported in Result.RenderErr
// alongside the stored record.
func (o *Orchestrator) Process(ctx context.Context, req Request) (Result, error) {
	meta := models.Metadata{Doctor: req.Doctor, Patient: req.Patient, Date: req.Date}

	transcript, err := o.transcript(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTranscription, err)
	}
	o.logger.Info("session transcribed", "patient", req.Patient, "chars", len(transcript))

	summary, err := o.summarize(ctx, transcript, meta)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSummarization, err)
	}

	rec := models.SessionRecord{
		Doctor:     req.Doctor,
		Patient:    req.Patient,
		Date:       req.Date,
		Transcript: transcript,
		Summary:    summary,
		Tags:       tags.Extract(summary, o.markers),
		CreatedAt:  time.Now().UTC(),
	}

	start := time.Now()
	rec.ID, err = o.store.NextID(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("allocate session id: %w", err)
	}
	if err := o.store.Insert(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("insert session %d: %w", rec.ID, err)
	}
	o.metrics.RecordTiming(metrics.OpDBQuery, time.Since(start))
	o.logger.Info("session persisted", "id", rec.ID, "tags", len(rec.Tags))

	qa := o.lookupKnowledge(ctx, summary)

	result := Result{Record: rec, Knowledge: qa}
	start = time.Now()
	doc := report.Build(meta, transcript, summary, rec.ID, qa)
	out, err := o.renderer.Render(doc)
	if err != nil {
		o.logger.Error("report rendering failed", "id", rec.ID, "error", err)
		result.RenderErr = fmt.Errorf("%w: %w", ErrRender, err)
		return result, nil
	}
	o.metrics.RecordTiming(metrics.OpRender, time.Since(start))

	result.Report = out
	return result, nil
}

// transcript resolves the session transcript. A non-empty manual text
// override wins and the gateway is never called; no audio at all yields
// an empty transcript rather than an error.
func (o *Orchestrator) transcript(ctx context.Context, req Request) (string, error) {
	if req.Text != "" {
		return req.Text, nil
	}

	audioPath := req.AudioPath
	if audioPath == "" && len(req.Audio) > 0 {
		path, cleanup, err := transcribe.StageBytes(req.Audio, req.AudioExt, o.logger)
		if err != nil {
			return "", err
		}
		defer cleanup()
		audioPath = path
	}
	if audioPath == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	text, err := o.gateway.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}
	o.metrics.RecordTiming(metrics.OpTranscribe, time.Since(start))
	return text, nil
}

func (o *Orchestrator) summarize(ctx context.Context, transcript string, meta models.Metadata) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	summary, err := o.summarizer.Summarize(ctx, transcript, meta)
	if err != nil {
		return "", err
	}
	o.metrics.RecordTiming(metrics.OpSummarize, time.Since(start))
	return summary, nil
}

// lookupKnowledge is best-effort: any failure is logged and downgraded
// to an empty result so the report still renders.
func (o *Orchestrator) lookupKnowledge(ctx context.Context, summary string) []models.QA {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	qa, err := o.knowledge.Lookup(ctx, summary, knowledge.DefaultLimit)
	if err != nil {
		o.logger.Warn("knowledge lookup failed", "error", err)
		return []models.QA{}
	}
	return qa
}

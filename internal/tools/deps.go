// Package tools provides MCP tool handlers and registration.
package tools

import (
	"context"
	"log/slog"

	"github.com/avelis/clinscribe/internal/metrics"
	"github.com/avelis/clinscribe/internal/pipeline"
	"github.com/avelis/clinscribe/internal/store"
)

// Runner processes a session through the pipeline. Satisfied by
// pipeline.Orchestrator; narrowed to an interface so handlers can be
// tested without live gateways.
type Runner interface {
	Process(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
}

// Dependencies holds shared services for tool handlers.
// Passed to handler factories via closure capture.
type Dependencies struct {
	Store    store.Store
	Pipeline Runner
	Metrics  *metrics.Collector
	Logger   *slog.Logger
}

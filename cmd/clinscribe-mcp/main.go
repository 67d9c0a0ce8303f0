// Package main provides the entry point for the clinscribe MCP server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/avelis/clinscribe/internal/config"
	"github.com/avelis/clinscribe/internal/db"
	"github.com/avelis/clinscribe/internal/knowledge"
	"github.com/avelis/clinscribe/internal/llm"
	"github.com/avelis/clinscribe/internal/metrics"
	"github.com/avelis/clinscribe/internal/pipeline"
	"github.com/avelis/clinscribe/internal/report"
	"github.com/avelis/clinscribe/internal/server"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/avelis/clinscribe/internal/store/sqlite"
	"github.com/avelis/clinscribe/internal/tools"
	"github.com/avelis/clinscribe/internal/transcribe"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Dual output: stderr text + file JSON. Stdout stays reserved for
	// the MCP transport.
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("clinscribe-mcp starting",
		"version", version,
		"store", cfg.StoreBackend,
		"transcriber", cfg.Transcriber,
		"llm_provider", cfg.LLMProvider,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	var (
		sessions store.Store
		dbClient *db.Client
	)
	switch cfg.StoreBackend {
	case config.StoreSurreal:
		dbClient, err = db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := dbClient.InitSchema(ctx); err != nil {
			logger.Error("failed to initialize database schema", "error", err)
			os.Exit(1)
		}
		sessions = dbClient
	default:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			logger.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		sessions = st
	}
	defer func() {
		logger.Info("closing store")
		_ = sessions.Close(ctx)
	}()

	var gateway transcribe.Gateway
	if cfg.Transcriber == config.TranscriberGemini {
		gateway = transcribe.NewGeminiGateway(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		gateway = transcribe.NewOpenAIGateway(cfg.OpenAIAPIKey, cfg.WhisperModel)
	}

	model, err := llm.NewModel(cfg)
	if err != nil {
		logger.Error("failed to initialize LLM", "error", err)
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	orch := pipeline.New(pipeline.Deps{
		Store:      sessions,
		Gateway:    gateway,
		Summarizer: llm.NewSummarizer(model),
		Renderer:   report.NewPDFRenderer(),
		Knowledge:  knowledge.FromConfig(dbClient, cfg, collector, logger),
		Metrics:    collector,
		Logger:     logger,
		Markers:    cfg.DiagnosisMarkers,
		Timeout:    cfg.GatewayTimeout,
	})

	srv := server.New(version, logger)
	srv.Setup()

	tools.RegisterAll(srv.MCPServer(), &tools.Dependencies{
		Store:    sessions,
		Pipeline: orch,
		Metrics:  collector,
		Logger:   logger,
	})

	logger.Info("server ready, awaiting connections")

	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

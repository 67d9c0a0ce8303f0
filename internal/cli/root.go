// Package cli provides the command-line interface for clinscribe.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avelis/clinscribe/internal/config"
	"github.com/avelis/clinscribe/internal/db"
	"github.com/avelis/clinscribe/internal/knowledge"
	"github.com/avelis/clinscribe/internal/llm"
	"github.com/avelis/clinscribe/internal/metrics"
	"github.com/avelis/clinscribe/internal/pipeline"
	"github.com/avelis/clinscribe/internal/report"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/avelis/clinscribe/internal/store/sqlite"
	"github.com/avelis/clinscribe/internal/transcribe"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	configPath string
	verbose    bool

	// Global state, initialized in PersistentPreRunE
	cfg       config.Config
	logger    *slog.Logger
	closeLog  func() error
	sessions  store.Store
	dbClient  *db.Client
	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "clinscribe",
	Short: "Clinical session transcription and reporting",
	Long: `Clinscribe records clinical consultations end to end: it transcribes
session audio, summarizes the dialogue into a medical-report style note
with possible diagnoses, stores the session record, and renders a PDF
or DOCX report.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip store connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if configPath != "" {
			if err := cfg.MergeFile(configPath); err != nil {
				return err
			}
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, closeLog = config.SetupLogger(cfg.LogFile, cfg.LogLevel)

		return openStore(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if sessions != nil {
			if err := sessions.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
			}
		}
		if closeLog != nil {
			if err := closeLog(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// openStore connects the configured record store backend.
func openStore(ctx context.Context) error {
	switch cfg.StoreBackend {
	case config.StoreSurreal:
		client, err := db.NewClient(ctx, db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		if err := client.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
		dbClient = client
		sessions = client
		return nil

	case config.StoreSQLite, "":
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		sessions = st
		return nil

	default:
		return fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

// newGateway builds the configured transcription gateway.
func newGateway() (transcribe.Gateway, error) {
	switch cfg.Transcriber {
	case config.TranscriberGemini:
		return transcribe.NewGeminiGateway(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case config.TranscriberOpenAI, "":
		return transcribe.NewOpenAIGateway(cfg.OpenAIAPIKey, cfg.WhisperModel), nil
	default:
		return nil, fmt.Errorf("unknown transcriber: %s", cfg.Transcriber)
	}
}

// newOrchestrator assembles the pipeline for the given report format.
func newOrchestrator(format string) (*pipeline.Orchestrator, report.Renderer, error) {
	gateway, err := newGateway()
	if err != nil {
		return nil, nil, err
	}
	model, err := llm.NewModel(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init LLM: %w", err)
	}
	renderer, err := report.RendererFor(format)
	if err != nil {
		return nil, nil, err
	}

	orch := pipeline.New(pipeline.Deps{
		Store:      sessions,
		Gateway:    gateway,
		Summarizer: llm.NewSummarizer(model),
		Renderer:   renderer,
		Knowledge:  knowledge.FromConfig(dbClient, cfg, collector, logger),
		Metrics:    collector,
		Logger:     logger,
		Markers:    cfg.DiagnosisMarkers,
		Timeout:    cfg.GatewayTimeout,
	})
	return orch, renderer, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the clinscribe version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("clinscribe " + Version)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(versionCmd)
}

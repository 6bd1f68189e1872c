package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/heritagehub/heritage-hub/internal/config"
	"github.com/heritagehub/heritage-hub/internal/core/compliance"
	"github.com/heritagehub/heritage-hub/internal/core/ports"
	"github.com/heritagehub/heritage-hub/internal/core/usecase"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/demo"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/extractor"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/extractor/ofx"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/llm/ollama"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/ocr"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/queue/nats"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/repository/postgres"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/repository/sqlite"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/resilience"
	"github.com/heritagehub/heritage-hub/internal/infrastructure/storage/localfs"
)

// Options tune what New wires beyond the configuration.
type Options struct {
	// Observer receives collaborator retry and breaker events.
	Observer resilience.Observer
	// OnQueueLag receives the delivery delay of ingest events.
	OnQueueLag func(time.Duration)
}

// Toolkit holds the stateless pieces: extraction, the rule engine and the
// planners. It needs no database and backs the CLI and the MCP server.
type Toolkit struct {
	Config config.Config

	Extractor  ports.TextExtractor
	Analyzer   ports.DocumentAnalyzer
	Portfolios *usecase.PortfolioUseCase
	Goals      ports.GoalPlanner
	Mentor     ports.Mentor

	LLMEnabled bool
	OCREnabled bool

	narrator ports.Narrator
}

type App struct {
	Config  config.Config
	Toolkit *Toolkit

	Queue      *nats.Queue
	Repo       ports.DocumentRepository
	Cases      ports.CaseRepository
	Portfolios ports.PortfolioService
	Goals      ports.GoalPlanner

	// IngestUC is nil when asynchronous ingest is disabled.
	IngestUC  ports.DocumentIngestor
	Documents ports.DocumentReader
	ProcessUC ports.DocumentProcessor

	closeFns []func()
}

func NewExecutor(cfg config.Config, observer resilience.Observer) *resilience.Executor {
	return resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:        cfg.RetryMaxAttempts,
		RetryInitialBackoff:     cfg.RetryInitialBackoff,
		RetryMaxBackoff:         cfg.RetryMaxBackoff,
		RetryMultiplier:         2.0,
		BreakerEnabled:          cfg.BreakerEnabled,
		BreakerMinRequests:      cfg.BreakerMinRequests,
		BreakerFailureRatio:     cfg.BreakerFailureRatio,
		BreakerOpenTimeout:      cfg.BreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: cfg.BreakerHalfOpenMaxCalls,
		Observer:                observer,
	})
}

// NewToolkit wires the collaborators. Demo mode replaces OCR and the LLM with
// fixtures; otherwise each is used only when configured.
func NewToolkit(cfg config.Config, executor *resilience.Executor) (*Toolkit, error) {
	engine, err := compliance.NewEngine(compliance.WithStaleAfterDays(cfg.StaleSignatureDays))
	if err != nil {
		return nil, fmt.Errorf("init rule engine: %w", err)
	}

	var (
		ocrService ports.OCRService
		narrator   ports.Narrator
	)
	switch {
	case cfg.DemoMode:
		ocrService = demo.NewOCR()
		narrator = demo.NewNarrator()
	default:
		if cfg.OCRURL != "" {
			ocrService = ocr.New(cfg.OCRURL, executor)
		}
		if cfg.LLMEnabled {
			narrator = ollama.NewNarrator(ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, executor))
		}
	}

	registry := extractor.NewRegistry(ocrService)

	return &Toolkit{
		Config:    cfg,
		Extractor: registry,
		Analyzer:  usecase.NewAnalyzeDocumentUseCase(registry, engine),
		Portfolios: usecase.NewPortfolioUseCase(usecase.PortfolioDeps{
			Extractor:  registry,
			Statements: ofx.NewParser(),
			Narrator:   narrator,
		}),
		Goals:      usecase.NewGoalPlannerUseCase(nil),
		Mentor:     usecase.NewMentorUseCase(narrator),
		LLMEnabled: narrator != nil,
		OCREnabled: ocrService != nil,
		narrator:   narrator,
	}, nil
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	executor := NewExecutor(cfg, opts.Observer)
	toolkit, err := NewToolkit(cfg, executor)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Toolkit: toolkit}

	if err := app.openStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	app.Portfolios = usecase.NewPortfolioUseCase(usecase.PortfolioDeps{
		Extractor:  toolkit.Extractor,
		Statements: ofx.NewParser(),
		Narrator:   toolkit.narrator,
		Cases:      app.Cases,
		Storage:    storage,
	})
	app.Goals = usecase.NewGoalPlannerUseCase(app.Cases)
	app.Documents = app.Repo
	app.ProcessUC = usecase.NewProcessDocumentUseCase(app.Repo, storage, toolkit.Analyzer)

	if cfg.AsyncIngestEnabled() {
		queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
			OnLag:              opts.OnQueueLag,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init message queue: %w", err)
		}
		app.Queue = queue
		app.closeFns = append(app.closeFns, queue.Close)

		ingestUC := usecase.NewIngestDocumentUseCase(app.Repo, storage, queue)
		app.IngestUC = ingestUC
		app.Documents = ingestUC
	} else {
		slog.Info("async_ingest_disabled")
	}

	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config) error {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.Repo = store
		a.Cases = store
		a.closeFns = append(a.closeFns, func() { _ = store.Close() })
	default:
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		a.closeFns = append(a.closeFns, func() { _ = db.Close() })
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		a.Repo = postgres.NewDocumentRepository(db)
		a.Cases = postgres.NewCaseRepository(db)
	}
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}

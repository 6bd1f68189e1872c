package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/heritagehub/heritage-hub/internal/bootstrap"
	"github.com/heritagehub/heritage-hub/internal/config"
	"github.com/heritagehub/heritage-hub/internal/observability/logging"
	"github.com/heritagehub/heritage-hub/internal/observability/metrics"
	"github.com/heritagehub/heritage-hub/internal/observability/tracing"
)

const service = "worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stdout, service, cfg.LogLevel, cfg.LogFormat))

	if !cfg.AsyncIngestEnabled() {
		slog.Error("worker_requires_nats", "hint", "set NATS_ENABLED=true and NATS_URL")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, "heritage-worker", cfg.OTELEndpoint)
	if err != nil {
		slog.Error("tracing_setup_failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	workerMetrics := metrics.NewWorkerMetrics(service)
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{
		Observer:   workerMetrics,
		OnQueueLag: workerMetrics.ObserveQueueLag,
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, cfg.WorkerDocumentTimeout)
		defer cancel()

		processCtx, span := tracing.StartJob(processCtx, "process_document", attribute.String("document.id", documentID))
		finish := workerMetrics.TrackDocument()

		processErr := app.ProcessUC.ProcessByID(processCtx, documentID)
		finish(processErr)
		tracing.End(span, processErr)
		if processErr != nil {
			return processErr
		}

		doc, err := app.Repo.GetByID(handlerCtx, documentID)
		if err != nil {
			slog.WarnContext(handlerCtx, "worker_result_lookup_failed", "document_id", documentID, "error", err)
			return nil
		}
		if doc.Analysis != nil {
			workerMetrics.RecordAnalysis(*doc.Analysis)
			slog.InfoContext(handlerCtx, "document_processed",
				"document_id", documentID,
				"nigo_status", doc.Analysis.Check.NIGOStatus,
				"confidence_level", doc.Analysis.ConfidenceLevel,
				"findings", len(doc.Analysis.Check.Errors),
			)
		}
		return nil
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

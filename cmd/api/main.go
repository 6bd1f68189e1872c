package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/heritagehub/heritage-hub/internal/adapters/http"
	"github.com/heritagehub/heritage-hub/internal/bootstrap"
	"github.com/heritagehub/heritage-hub/internal/config"
	"github.com/heritagehub/heritage-hub/internal/observability/logging"
	"github.com/heritagehub/heritage-hub/internal/observability/metrics"
	"github.com/heritagehub/heritage-hub/internal/observability/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stdout, "api", cfg.LogLevel, cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, "heritage-api", cfg.OTELEndpoint)
	if err != nil {
		slog.Error("tracing_setup_failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Observer: httpMetrics})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router, err := httpadapter.NewRouter(cfg, httpadapter.Services{
		Analyzer:   app.Toolkit.Analyzer,
		Ingestor:   app.IngestUC,
		Documents:  app.Documents,
		Portfolios: app.Portfolios,
		Goals:      app.Goals,
		Mentor:     app.Toolkit.Mentor,
	},
		httpadapter.WithMetrics(httpMetrics),
		httpadapter.WithHealth(httpadapter.Health{
			DemoMode:    cfg.DemoMode,
			Store:       cfg.StoreDriver,
			AsyncIngest: app.IngestUC != nil,
			LLM:         app.Toolkit.LLMEnabled,
			OCR:         app.Toolkit.OCREnabled,
		}),
	)
	if err != nil {
		slog.Error("router_init_failed", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Handler:           http.TimeoutHandler(router.Handler(), cfg.APIRequestTimeout, `{"error":"request timed out"}`),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.APIRequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", ":"+cfg.APIPort)
	if err != nil {
		slog.Error("api_listen_failed", "port", cfg.APIPort, "error", err)
		os.Exit(1)
	}
	if cfg.APIMaxConnections > 0 {
		listener = netutil.LimitListener(listener, cfg.APIMaxConnections)
	}

	go func() {
		slog.Info("api_listening",
			"port", cfg.APIPort,
			"demo_mode", cfg.DemoMode,
			"store", cfg.StoreDriver,
			"async_ingest", app.IngestUC != nil,
		)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}

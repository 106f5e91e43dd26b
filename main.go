package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/aaronzipp/holiday-wishes/internal/config"
	"github.com/aaronzipp/holiday-wishes/internal/handlers"
	"github.com/aaronzipp/holiday-wishes/internal/metrics"
	"github.com/aaronzipp/holiday-wishes/internal/render"
	"github.com/aaronzipp/holiday-wishes/internal/scheduler"
	"github.com/aaronzipp/holiday-wishes/internal/store"
	"github.com/aaronzipp/holiday-wishes/internal/wishes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid config: %v", err)
	}
	cfg.SetupLogging()

	catalog, err := wishes.Load(cfg.WishesPath)
	if err != nil {
		logrus.Fatalf("failed to load wishes: %v", err)
	}
	logrus.Infof("loaded %d wishes", catalog.Len())

	templates, err := render.Templates()
	if err != nil {
		logrus.Fatalf("failed to parse templates: %v", err)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)
	metricsServer := metrics.NewServer(cfg.MetricsPort, cfg.MetricsEndpoint, registry)

	app := &handlers.Context{
		Store:     store.NewFlowStore(),
		Templates: templates,
		Catalog:   catalog,
		Scheduler: scheduler.Real{},
		Metrics:   recorder,
		Settings: handlers.Settings{
			CountdownVideo: cfg.CountdownVideo,
			TreeVideo:      cfg.TreeVideo,
			Signature:      cfg.Signature,
			ConnectGrace:   cfg.ConnectGrace,
			PublicURL:      cfg.PublicURL,
		},
		Log: logrus.StandardLogger(),
	}

	// No write timeout: celebration event streams stay open for the whole show
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           app.Routes(cfg.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.Infof("server starting on http://localhost%s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()
	metricsServer.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logrus.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	app.Shutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("metrics server shutdown error: %v", err)
	}
	logrus.Info("server stopped")
}

package main

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"routeopt/internal/api"
	"routeopt/internal/config"
	"routeopt/internal/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(lvl)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	srv, err := api.NewServer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("init server")
	}
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	// Solver
	mux.HandleFunc("/v1/clusters", srv.ClustersHandler)
	mux.HandleFunc("/v1/solve", srv.SolveHandler)

	// Solve records, includes /rerun and /events/ws
	mux.HandleFunc("/v1/solves", srv.SolvesIndexHandler)
	mux.HandleFunc("/v1/solves/", srv.SolveByIDHandler)

	// Webhook subscriptions
	mux.HandleFunc("/v1/subscriptions", srv.SubscriptionsHandler)
	mux.HandleFunc("/v1/subscriptions/", srv.SubscriptionByIDHandler)

	// Health and metrics
	mux.HandleFunc("/healthz", srv.HealthHandler)
	mux.HandleFunc("/readyz", srv.ReadyHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Docs and debug
	mux.HandleFunc("/openapi.yaml", srv.OpenAPIHandler)
	mux.HandleFunc("/docs", srv.DocsHandler)
	mux.HandleFunc("/debug/info", srv.DebugJSON)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.WithMiddleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	worker := srv.NewWebhookWorker()
	worker.Start()

	logrus.WithField("addr", cfg.Server.Addr).Info("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server error")
	}
}

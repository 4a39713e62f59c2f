package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Simplici0/salario/internal/config"
	"github.com/Simplici0/salario/internal/db"
	"github.com/Simplici0/salario/internal/insight"
	"github.com/Simplici0/salario/internal/logging"
	"github.com/Simplici0/salario/internal/migrations"
)

var log = logging.For("server")

func main() {
	cfg := config.Load()
	if err := logging.Setup(cfg.LogLevel); err != nil {
		log.WithError(err).Fatal("invalid LOG_LEVEL")
	}
	for _, w := range cfg.Warnings {
		log.Warn(w)
	}

	ctx := context.Background()
	explainer, closeCache := newExplainer(ctx, cfg)
	defer closeCache()

	srv, err := newServer(explainer, cfg.SessionSecret)
	if err != nil {
		log.WithError(err).Fatal("failed to build server")
	}

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithField("addr", addr).WithField("insight", explainer.Enabled()).Info("listening")
	if err := httpServer.ListenAndServe(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// newExplainer wires the Gemini generator and, when a TTL is configured, the
// SQLite response cache. Failures disable the feature instead of aborting.
func newExplainer(ctx context.Context, cfg config.Config) (*insight.Explainer, func()) {
	noop := func() {}
	if !cfg.InsightEnabled() {
		return insight.NewExplainer(nil), noop
	}

	gemini, err := insight.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Error("failed to create gemini client, AI insight disabled")
		return insight.NewExplainer(nil), noop
	}

	opts := []insight.Option{insight.WithTimeout(cfg.InsightTimeout)}
	if cfg.InsightCacheTTL <= 0 {
		return insight.NewExplainer(gemini, opts...), noop
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.WithError(err).Error("failed to open database, insight cache disabled")
		return insight.NewExplainer(gemini, opts...), noop
	}
	if err := migrations.Up(ctx, database); err != nil {
		log.WithError(err).Error("failed to run database migrations, insight cache disabled")
		database.Close()
		return insight.NewExplainer(gemini, opts...), noop
	}

	cache := insight.NewSQLiteCache(database, cfg.InsightCacheTTL)
	if removed, err := cache.Prune(ctx); err != nil {
		log.WithError(err).Warn("failed to prune insight cache")
	} else if removed > 0 {
		log.WithField("removed", removed).Info("pruned expired insights")
	}

	opts = append(opts, insight.WithCache(cache))
	return insight.NewExplainer(gemini, opts...), func() { database.Close() }
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hangul-fuzzy-search/internal/api/handlers"
	"hangul-fuzzy-search/internal/api/middleware"
	"hangul-fuzzy-search/internal/api/routes"
	"hangul-fuzzy-search/internal/config"
	"hangul-fuzzy-search/pkg/deploy"
	"hangul-fuzzy-search/pkg/feedback"
	"hangul-fuzzy-search/pkg/logger"
	"hangul-fuzzy-search/pkg/searchindex"

	"github.com/go-chi/chi/v5"
)

// demoCatalog is a small seed collection standing in for whatever real
// catalog (products, docs, contacts) an embedding service would index.
var demoCatalog = []handlers.Item{
	{Key: "프론트엔드", Description: "frontend engineering"},
	{Key: "백엔드", Description: "backend engineering"},
	{Key: "데이터", Description: "data engineering"},
	{Key: "검색", Description: "search"},
	{Key: "개발", Description: "development"},
	{Key: "결제", Description: "payments"},
	{Key: "검사", Description: "inspection"},
	{Key: "search", Description: "search (latin)"},
	{Key: "service", Description: "service"},
	{Key: "season", Description: "season"},
}

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level)
	log.Info("Starting Hangul fuzzy search service")

	now := time.Now()

	policy := searchindex.DefaultPolicy()
	policy.Cache = searchindex.LruCache
	policy.CacheCapacity = cfg.Search.CacheCapacity
	policy.IndexStrategy = searchindex.Strategy{Kind: searchindex.Ngram, NgramK: cfg.Search.NgramSize}

	index := searchindex.New(demoCatalog, func(it handlers.Item) string { return it.Key }, policy, now)

	deployment, err := deploy.LoadOrDefault(cfg.Search.DeploymentConfig, now)
	if err != nil {
		log.Error(fmt.Sprintf("failed to load deployment config, using sanitized default: %v", err))
		deployment = deploy.Default().Sanitize(now)
	}

	feedbackStore := feedback.NewStore(10000, 30*24*time.Hour)

	searchHandler := handlers.NewSearchHandler(index, feedbackStore, deployment, cfg.Search.Environment, log)
	router := setupRouter(searchHandler, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(fmt.Sprintf("Server failed to start: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	log.Info("Server shutdown complete")
}

func setupRouter(searchHandler *handlers.SearchHandler, log logger.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RateLimiter(10000))
	routes.SetupSearchRoutes(r, searchHandler)
	return r
}

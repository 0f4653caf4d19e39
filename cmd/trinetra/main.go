package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/trinetra-labs/trinetra/internal/config"
	"github.com/trinetra-labs/trinetra/internal/db"
	dbRedis "github.com/trinetra-labs/trinetra/internal/db/redis"
	"github.com/trinetra-labs/trinetra/internal/domain/category"
	"github.com/trinetra-labs/trinetra/internal/domain/keyword"
	logpkg "github.com/trinetra-labs/trinetra/internal/logger"
	"github.com/trinetra-labs/trinetra/internal/metrics"
	channelrepo "github.com/trinetra-labs/trinetra/internal/repository/channel"
	resultrepo "github.com/trinetra-labs/trinetra/internal/repository/result"
	"github.com/trinetra-labs/trinetra/internal/scorer/heuristic"
	chiTransport "github.com/trinetra-labs/trinetra/internal/transport/chi"
	openaiScorer "github.com/trinetra-labs/trinetra/internal/transport/openai"
	channeluc "github.com/trinetra-labs/trinetra/internal/usecase/channel"
	classifyuc "github.com/trinetra-labs/trinetra/internal/usecase/classify"
	exportuc "github.com/trinetra-labs/trinetra/internal/usecase/export"
	healthuc "github.com/trinetra-labs/trinetra/internal/usecase/health"
	monitoruc "github.com/trinetra-labs/trinetra/internal/usecase/monitor"
	"github.com/trinetra-labs/trinetra/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting trinetra API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("scorer_driver", cfg.Scorer.Driver),
	)

	// Create database store. rueidis speaks both redis and valkey.
	var store db.Store
	switch cfg.Database.Driver {
	case "redis", "valkey":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register classifier metrics explicitly (no init())
	metrics.RegisterClassifierMetrics()

	// Category set and keyword registry — composition root
	cats, err := buildCategorySet(cfg.Classifier)
	if err != nil {
		logger.Fatal("Failed to build category set", zap.Error(err))
	}
	registry, err := keyword.NewRegistry(buildKeywordGroups(cfg.Classifier))
	if err != nil {
		logger.Fatal("Failed to build keyword registry", zap.Error(err))
	}

	// Semantic scorer behind the instrumentation decorator
	var scorer classifyuc.Scorer
	switch cfg.Scorer.Driver {
	case "heuristic":
		scorer = heuristic.New(cats)
	case "zeroshot":
		scorer = openaiScorer.New(openaiScorer.Config{
			APIKey:  cfg.Scorer.Provider.APIKey,
			BaseURL: cfg.Scorer.Provider.BaseURL,
			Model:   cfg.Scorer.Provider.Model,
		}, cats, logger)
	default:
		logger.Fatal("Unknown scorer driver", zap.String("driver", cfg.Scorer.Driver))
	}
	instrumented := classifyuc.NewInstrumentedScorer(scorer, cfg.Scorer.Driver, logger)
	logger.Info("Scorer created",
		zap.String("driver", cfg.Scorer.Driver),
		zap.Strings("labels", labelStrings(cats.Labels())),
	)

	// Create repositories
	resultRepo := resultrepo.New(store, cfg.Storage.KeyPrefix, cfg.Storage.MaxResultsPerChannel)
	channelRepo := channelrepo.New(store, cfg.Storage.KeyPrefix)

	// Create use case services
	classifySvc, err := classifyuc.New(registry, cats, instrumented)
	if err != nil {
		logger.Fatal("Failed to create classification engine", zap.Error(err))
	}
	monitorSvc := monitoruc.New(classifySvc, resultRepo, channelRepo, cats.Target())
	channelSvc := channeluc.New(channelRepo)
	exportSvc := exportuc.New(resultRepo)

	// Health service — the raw scorer, not the decorator, knows its
	// provider reachability.
	var scorerCheck healthuc.ScorerChecker
	if hc, ok := scorer.(healthuc.ScorerChecker); ok {
		scorerCheck = hc
	}
	healthSvc := healthuc.New(store, scorerCheck)

	// Create chi server
	server := chiTransport.NewServer(classifySvc, channelSvc, monitorSvc, exportSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCategorySet maps classifier config to the category set, keeping
// the built-in labels when none are configured.
func buildCategorySet(cfg config.ClassifierConfig) (category.Set, error) {
	if len(cfg.Labels) == 0 {
		return category.DefaultSet(), nil
	}

	labels := make([]category.Category, len(cfg.Labels))
	for i, l := range cfg.Labels {
		labels[i] = category.Category(l)
	}
	target := category.Category(cfg.Target)
	if cfg.Target == "" {
		target = category.DrugSale
	}
	fallback := category.Category(cfg.Fallback)
	if cfg.Fallback == "" {
		fallback = category.Normal
	}

	set, err := category.NewSet(labels, target, fallback)
	if err != nil {
		return category.Set{}, fmt.Errorf("classifier labels: %w", err)
	}
	return set, nil
}

// buildKeywordGroups maps configured keyword groups, defaulting to the
// built-in registry when none are configured.
func buildKeywordGroups(cfg config.ClassifierConfig) []keyword.Group {
	if len(cfg.Keywords) == 0 {
		return keyword.DefaultGroups()
	}

	groups := make([]keyword.Group, len(cfg.Keywords))
	for i, kw := range cfg.Keywords {
		groups[i] = keyword.Group{
			Name:       kw.Name,
			Weight:     kw.Weight,
			Symbolic:   kw.Symbolic,
			HighSignal: kw.HighSignal,
			Terms:      kw.Terms,
		}
	}
	return groups
}

func labelStrings(labels []category.Category) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l)
	}
	return out
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}

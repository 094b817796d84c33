package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/quipudata/seriedex/internal/config"
	"github.com/quipudata/seriedex/internal/db"
	dbFile "github.com/quipudata/seriedex/internal/db/file"
	dbRedis "github.com/quipudata/seriedex/internal/db/redis"
	logpkg "github.com/quipudata/seriedex/internal/logger"
	"github.com/quipudata/seriedex/internal/metrics"
	catalogrepo "github.com/quipudata/seriedex/internal/repository/catalog"
	"github.com/quipudata/seriedex/internal/transport/bcrp"
	chiTransport "github.com/quipudata/seriedex/internal/transport/chi"
	cataloguc "github.com/quipudata/seriedex/internal/usecase/catalog"
	healthuc "github.com/quipudata/seriedex/internal/usecase/health"
	resolveuc "github.com/quipudata/seriedex/internal/usecase/resolve"
	seriesuc "github.com/quipudata/seriedex/internal/usecase/series"
	"github.com/quipudata/seriedex/internal/version"
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

	logger.Info("Starting seriedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("snapshot_driver", cfg.Snapshot.Driver),
	)

	// Create snapshot store based on driver
	var store db.Store
	switch cfg.Snapshot.Driver {
	case "file":
		store, err = dbFile.NewStore(dbFile.DefaultPath(cfg.Snapshot.CacheDir))
	case "redis":
		var rs *dbRedis.Store
		rs, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Snapshot.Addrs,
			Password: cfg.Snapshot.Password,
		})
		if err == nil {
			readiness := time.Duration(cfg.Snapshot.ReadinessTimeout) * time.Second
			if err = rs.WaitForReady(context.Background(), readiness); err == nil {
				store = rs
			}
		}
	default:
		logger.Fatal("Unknown snapshot driver", zap.String("driver", cfg.Snapshot.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create snapshot store", zap.Error(err))
	}
	defer store.Close()

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Upstream BCRP client
	client := bcrp.NewClient(&bcrp.Config{
		BaseURL:    cfg.BCRP.BaseURL,
		Timeout:    time.Duration(cfg.BCRP.TimeoutSec) * time.Second,
		RequestGap: time.Duration(cfg.BCRP.RequestGapMS) * time.Millisecond,
		UserAgent:  cfg.BCRP.UserAgent,
		Logger:     logger,
	})

	// Catalog manager over the snapshot store
	repo := catalogrepo.New(store)
	maxAge := time.Duration(cfg.Snapshot.MaxAgeHours) * time.Hour
	manager := cataloguc.NewManager(repo, client, maxAge, logger)

	ctx := context.Background()
	if err := manager.Load(ctx); err != nil {
		// A missing snapshot triggers an initial download inside Load; any
		// error here means we have nothing to serve searches from.
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}

	status := manager.Status()
	logger.Info("Catalog loaded",
		zap.Int("records", status.RecordCount),
		zap.Time("loaded_at", status.LoadedAt),
		zap.Bool("stale", status.IsStale),
	)

	if status.IsStale && cfg.Snapshot.RefreshOnStale {
		go func() {
			if err := manager.Refresh(context.Background()); err != nil {
				logger.Warn("Background catalog refresh failed", zap.Error(err))
			}
		}()
	}

	// Use case services
	resolveSvc := resolveuc.New(manager)
	seriesSvc := seriesuc.New(client, manager)
	healthSvc := healthuc.New(store, manager)

	// Create chi server
	server := chiTransport.NewServer(resolveSvc, seriesSvc, manager, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

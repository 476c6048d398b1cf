package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"

	"github.com/dvukovic/shopcore/internal/config"
	"github.com/dvukovic/shopcore/internal/database"
	idemmemory "github.com/dvukovic/shopcore/internal/idempotency/memory"
	idempostgres "github.com/dvukovic/shopcore/internal/idempotency/postgres"
	"github.com/dvukovic/shopcore/internal/kafka"
	"github.com/dvukovic/shopcore/internal/kv"
	kvfile "github.com/dvukovic/shopcore/internal/kv/file"
	kvmemory "github.com/dvukovic/shopcore/internal/kv/memory"
	kvmirror "github.com/dvukovic/shopcore/internal/kv/mirror"
	kvpostgres "github.com/dvukovic/shopcore/internal/kv/postgres"
	kvredis "github.com/dvukovic/shopcore/internal/kv/redis"
	"github.com/dvukovic/shopcore/internal/lifecycle/adapters"
	httpadapter "github.com/dvukovic/shopcore/internal/lifecycle/adapters/http"
	"github.com/dvukovic/shopcore/internal/lifecycle/adapters/store"
	"github.com/dvukovic/shopcore/internal/lifecycle/app"
	lifecyclemetrics "github.com/dvukovic/shopcore/internal/lifecycle/metrics"
	"github.com/dvukovic/shopcore/internal/lifecycle/ports"
	"github.com/dvukovic/shopcore/internal/scheduler"
	"github.com/dvukovic/shopcore/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(telemetry.ParseLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	meter := tel.MeterProvider().Meter(cfg.Service.Name)

	recordStore, pool, err := buildRecordStore(ctx, cfg, logger, meter)
	if err != nil {
		logger.Error("failed to build record store", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		recordStore = kvmirror.NewStore(recordStore, kvredis.NewStore(client, cfg.Service.Name), logger)
		logger.Info("record store mirroring enabled", "addr", cfg.Redis.Addr)
	}

	kvMetrics, err := kv.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create store metrics", "error", err)
		os.Exit(1)
	}
	recordStore = kv.NewObservableStore(recordStore, kvMetrics)

	var eventBus ports.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaMetrics, err := kafka.NewMetrics(meter)
		if err != nil {
			logger.Error("failed to create kafka metrics", "error", err)
			os.Exit(1)
		}
		producer := kafka.NewEventBus(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		eventBus = adapters.NewObservableEventBus(producer, kafkaMetrics)
		logger.Info("kafka event bus enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		eventBus = kafka.NewNoopEventBus()
		logger.Info("kafka brokers not configured; events will be logged only")
	}

	var idemStore ports.IdempotencyStore
	if pool != nil {
		idemStore = idempostgres.NewStore(pool)
	} else {
		idemStore = idemmemory.NewStore()
	}

	appMetrics, err := lifecyclemetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create lifecycle metrics", "error", err)
		os.Exit(1)
	}

	service := app.NewService(
		store.NewOrders(recordStore, logger),
		store.NewReturns(recordStore, logger),
		store.NewPayments(recordStore, logger),
		eventBus,
		idemStore,
		logger,
		appMetrics,
	)

	ticker := scheduler.New([]scheduler.Task{
		{Name: "delivery", Interval: cfg.Ticks.DeliveryInterval, Run: service.AdvanceDeliveryTick},
		{Name: "refund", Interval: cfg.Ticks.RefundInterval, Run: service.AdvanceRefundTick},
	}, nil, logger)
	ticker.Start(ctx)
	defer ticker.Stop()

	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := database.CheckHealth(r.Context(), pool); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	httpadapter.NewHandler(service).Register(mux)

	handler := withRecovery(withLogging(httpadapter.WithMetrics(mux, httpMetrics)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}
}

// buildRecordStore selects the record store backend. The returned pool is
// nil unless the postgres backend is active.
func buildRecordStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, meter metric.Meter) (kv.Store, *pgxpool.Pool, error) {
	switch cfg.Store.Backend {
	case "memory":
		logger.Info("using in-memory record store")
		return kvmemory.NewStore(), nil, nil

	case "file":
		fileStore, err := kvfile.NewStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		logger.Info("using file record store", "path", cfg.Store.Path)
		return fileStore, nil, nil

	case "postgres":
		pool, err := database.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("create database pool: %w", err)
		}

		if cfg.Database.AutoMigrate {
			logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
			if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		dbMetrics, err := database.NewMetrics(meter)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("create database metrics: %w", err)
		}

		logger.Info("using postgres record store")
		return kvpostgres.NewStore(pool, dbMetrics), pool, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.Info("http request", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

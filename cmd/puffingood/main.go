// Package main запускает HTTP-сервер витрины.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/puffingood/internal/cache"
	"github.com/mmeshcher/puffingood/internal/config"
	"github.com/mmeshcher/puffingood/internal/events"
	"github.com/mmeshcher/puffingood/internal/handler"
	"github.com/mmeshcher/puffingood/internal/middleware"
	"github.com/mmeshcher/puffingood/internal/repository"
	"github.com/mmeshcher/puffingood/internal/service"
	"github.com/mmeshcher/puffingood/internal/telemetry"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint)
	if err != nil {
		sugar.Fatalw("tracer initialization error", "error", err.Error())
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider()
	if err != nil {
		sugar.Fatalw("meter initialization error", "error", err.Error())
	}

	metrics, err := telemetry.NewMetrics(otel.Meter(telemetry.ServiceName))
	if err != nil {
		sugar.Fatalw("metrics initialization error", "error", err.Error())
	}

	repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	store := cache.NewMemoryCache(telemetry.ServiceName)
	if cfg.RedisAddress != "" {
		store = cache.NewRedisCache(cfg.RedisAddress, telemetry.ServiceName)
		if err := cache.Ping(ctx, store); err != nil {
			sugar.Fatalw("redis initialization error", "error", err.Error())
		}
	}
	defer cache.Close(store)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
	}

	svc := service.NewService(repo, store,
		service.WithPublisher(publisher),
		service.WithMetrics(metrics),
		service.WithLogger(logger),
		service.WithAdminEmail(cfg.AdminEmail),
	)
	defer svc.Close()

	if err := svc.EnsureAdmin(ctx); err != nil {
		sugar.Errorw("admin bootstrap error", "error", err.Error())
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret)
	h := handler.NewHandler(svc, logger, authMiddleware)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: otelhttp.NewHandler(h.SetupRouter(metricsHandler), "puffingood-http"),
	}

	g, ctx := errgroup.WithContext(ctx)

	// Фоновый пересчёт сводки по заказам для метрик
	g.Go(func() error {
		svc.StartSummaryRefresh(ctx, cfg.SummaryWindowDays, cfg.SummaryRefreshInterval)
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting puffingood server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		if err := shutdownTracer(shutdownCtx); err != nil {
			sugar.Warnw("tracer shutdown error", "error", err)
		}
		if err := shutdownMeter(shutdownCtx); err != nil {
			sugar.Warnw("meter shutdown error", "error", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

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

	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/geocoder"
	httpadapter "github.com/couchcryptid/launch-feasibility-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/launch-feasibility-service/internal/adapter/kafka"
	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/llm"
	"github.com/couchcryptid/launch-feasibility-service/internal/adapter/restcountries"
	"github.com/couchcryptid/launch-feasibility-service/internal/advisor"
	"github.com/couchcryptid/launch-feasibility-service/internal/analysis"
	"github.com/couchcryptid/launch-feasibility-service/internal/config"
	"github.com/couchcryptid/launch-feasibility-service/internal/domain"
	"github.com/couchcryptid/launch-feasibility-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFrom(cfg), logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	countries := restcountries.NewClient(cfg.CountryAPIURL, cfg.CountryTimeout, metrics, logger)

	// Reverse geocoding (GEOCODER_PROVIDER). Disabled serves the coordinate fallback name.
	var reverse domain.ReverseGeocoder
	reverse, err = geocoder.New(cfg, metrics, logger)
	switch {
	case errors.Is(err, geocoder.ErrDisabled):
		reverse = nil
		logger.Info("reverse geocoding disabled")
	case err != nil:
		logger.Error("failed to init geocoder", "error", err)
		os.Exit(1)
	default:
		logger.Info("reverse geocoding enabled",
			"provider", cfg.GeocoderProvider,
			"cache_size", cfg.GeocoderCacheSize,
			"timeout", cfg.GeocoderTimeout,
		)
	}

	llmClient, err := llm.New(cfg, logger)
	if err != nil {
		logger.Error("failed to init llm client", "error", err)
		os.Exit(1)
	}
	if cfg.LLMAPIKey == "" {
		logger.Warn("LLM_API_KEY not set, weather and chat endpoints will fail")
	}
	adv := advisor.New(llmClient, advisor.Models{Weather: cfg.LLMWeatherModel, Chat: cfg.LLMChatModel}, metrics, logger)

	opts := []analysis.Option{analysis.WithLookupTimeout(cfg.CountryTimeout)}
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		opts = append(opts, analysis.WithPublisher(publisher))
		logger.Info("analysis events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	analyzer := analysis.NewService(countries, metrics, logger, opts...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Analyzer: analyzer,
		Advisor:  adv,
		Geocoder: reverse,
		Metrics:  metrics,
		// The weather route waits on the LLM backend.
		WriteTimeout: cfg.LLMTimeout + 10*time.Second,
	}, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.MarkDraining()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	logger.Info("shutdown complete")
}

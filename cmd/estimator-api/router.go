// Package main provides the API router setup.
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/spherical-ai/spherical/libs/move-estimator/cmd/estimator-api/handlers"
	"github.com/spherical-ai/spherical/libs/move-estimator/cmd/estimator-api/middleware"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/cache"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/config"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/dictionary"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/estimate"
	"github.com/spherical-ai/spherical/libs/move-estimator/internal/observability"
)

// Services are the long-lived dependencies behind the routes.
type Services struct {
	Dictionary *dictionary.Dictionary
	Estimator  *estimate.Estimator
	Quotes     estimate.QuoteService
	Cache      cache.Client
}

// BuildServices loads the dictionary, opens the quote cache when enabled and wires the estimator.
func BuildServices(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Services, error) {
	dict, err := dictionary.Open(ctx, cfg.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}

	opts, err := estimate.OptionsFrom(cfg)
	if err != nil {
		return nil, fmt.Errorf("estimator options: %w", err)
	}

	est, err := estimate.New(dict, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("create estimator: %w", err)
	}

	svcLogger := logger.With().
		Str("dictionary_source", cfg.Dictionary.Source).
		Int("dictionary_size", dict.Len()).
		Logger()
	svcLogger.Info().Str("fingerprint", est.Fingerprint()).Msg("Estimator ready")

	svc := &Services{Dictionary: dict, Estimator: est, Quotes: est}
	if !cfg.Cache.Enabled {
		return svc, nil
	}

	client, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		svcLogger.Warn().Err(err).Str("driver", cfg.Cache.Driver).Msg("Quote cache unavailable, continuing without it")
		return svc, nil
	}

	svc.Cache = client
	svc.Quotes = estimate.NewCachedEstimator(est, estimate.NewResponseCache(client, logger, estimate.ResponseCacheConfig{
		TTL:     cfg.Cache.TTL,
		Enabled: true,
	}))
	return svc, nil
}

// Close releases the cache connection.
func (s *Services) Close() error {
	if s.Cache == nil {
		return nil
	}
	return s.Cache.Close()
}

// AppConfig holds router configuration.
type AppConfig struct {
	ServiceName    string
	RequestTimeout time.Duration
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// DefaultAppConfig returns default configuration values.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		ServiceName:    "move-estimator",
		RequestTimeout: 30 * time.Second,
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   1 << 20,
	}
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, svc *Services, cfg *AppConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	healthHandler := handlers.NewHealthHandler(logger, cfg.ServiceName, svc.Dictionary)
	estimateHandler := handlers.NewEstimateHandler(logger, svc.Quotes, cfg.MaxBodyBytes)
	dictionaryHandler := handlers.NewDictionaryHandler(logger, svc.Estimator)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/estimates", estimateHandler.Create)
		r.Post("/resolve", dictionaryHandler.Resolve)
		r.Get("/dictionary", dictionaryHandler.List)
		r.Get("/bands", dictionaryHandler.Bands)
	})

	return r
}

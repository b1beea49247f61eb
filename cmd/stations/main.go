package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationmap/internal/cache"
	"github.com/bbernstein/stationmap/internal/config"
	"github.com/bbernstein/stationmap/internal/directory"
	"github.com/bbernstein/stationmap/internal/handler"
	"github.com/bbernstein/stationmap/internal/models"
	"github.com/bbernstein/stationmap/internal/storage"
	"github.com/bbernstein/stationmap/pkg/http/client"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Str("backend", cfg.DirectoryBackend).Msg("Environment")

		dir, err := buildDirectory(context.Background(), cfg, config.GetCacheConfig())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize station directory")
		}

		stationsHandler = handler.NewStationsHandler(dir)
	})
}

// buildDirectory selects the station source and wraps it in the lookup cache.
func buildDirectory(ctx context.Context, cfg *config.Config, cacheCfg *config.CacheConfig) (models.StationDirectory, error) {
	var base models.StationDirectory
	switch cfg.DirectoryBackend {
	case config.BackendSQLite:
		db, err := storage.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening offline station index: %w", err)
		}
		base = storage.NewSQLiteDirectory(db)
	default:
		httpClient := client.New(client.Options{
			BaseURL:    cfg.DirectoryBaseURL,
			UserAgent:  cfg.UserAgent,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})
		base = directory.NewTransportDirectory(httpClient)
	}

	store, err := cache.NewResponseStore(ctx, cacheCfg)
	if err != nil {
		// The in-memory layer still works without a persistent store.
		log.Warn().Err(err).Msg("Lookup store unavailable, continuing without it")
	}

	cached, err := cache.NewCachedDirectory(base, cacheCfg, store)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Debug().Interface("params", request.QueryStringParameters).Msg("Handling Lambda request")
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}

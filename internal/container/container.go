package container

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/go-wanderlust-places/config"
	generativeAI "github.com/FACorreiaa/go-wanderlust-places/internal/api/generative_ai"
	"github.com/FACorreiaa/go-wanderlust-places/internal/api/places"
	"github.com/FACorreiaa/go-wanderlust-places/internal/api/recommend"
	"github.com/FACorreiaa/go-wanderlust-places/internal/cache"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Cache            *cache.Cache
	PlacesService    places.Service
	RecommendService recommend.Service
	PlacesHandler    *places.HandlerImpl
	RecommendHandler *recommend.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if err := places.ValidateCategories(); err != nil {
		logger.Error("Invalid category table", slog.Any("error", err))
		return nil, err
	}

	// One cache instance shared by every service for the life of the process.
	store := cache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval)

	placesRepo := places.NewRepository(cfg.Places, logger)
	osmRepo := places.NewOSMRepository(cfg.OSM, logger)
	placesService := places.NewServiceImpl(placesRepo, osmRepo, store, places.OptionsFromConfig(cfg.Places), logger)
	placesHandler := places.NewHandlerImpl(placesService, logger)

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		return nil, err
	}
	recommendService := recommend.NewServiceImpl(aiClient, logger)
	recommendHandler := recommend.NewHandlerImpl(recommendService, logger)

	if cfg.Places.APIKey == "" {
		logger.Warn("Google Places API key not configured, place endpoints will fail")
	}

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Cache:            store,
		PlacesService:    placesService,
		RecommendService: recommendService,
		PlacesHandler:    placesHandler,
		RecommendHandler: recommendHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Cache != nil {
		c.Cache.Clear()
	}
}

package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	database "github.com/FACorreiaa/go-trip-images/app/db"
	"github.com/FACorreiaa/go-trip-images/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-images/config"
	"github.com/FACorreiaa/go-trip-images/internal/api/imagecache"
	"github.com/FACorreiaa/go-trip-images/internal/api/images"
	"github.com/FACorreiaa/go-trip-images/internal/api/places"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Pool          *pgxpool.Pool
	ImageCache    *imagecache.Cache
	ImagesService *images.ServiceImpl
	ImagesHandler *images.HandlerImpl
	PlacesHandler *places.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, m *metrics.AppMetrics) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	store, err := c.newCacheStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.ImageCache = imagecache.Init(ctx, store,
		imagecache.WithRetention(cfg.Pipeline.Retention),
		imagecache.WithLogger(logger),
		imagecache.WithMetrics(m),
	)
	logger.Info("Image cache ready",
		slog.String("backend", cfg.Cache.Backend),
		slog.Int("entries", c.ImageCache.Len()))

	imagesClient := &http.Client{
		Timeout:   cfg.Images.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	provider, err := images.NewProviderFromConfig(cfg.Images, imagesClient)
	if err != nil {
		c.Close()
		return nil, err
	}
	if cfg.Images.APIKey == "" {
		logger.Warn("No image provider API key configured, every lookup will return a placeholder",
			slog.String("provider", provider.Name()))
	}

	c.ImagesService = images.NewServiceImpl(c.ImageCache, provider, cfg.Pipeline, logger,
		images.WithMetrics(m),
		images.WithPlaceholderBaseURL(cfg.Images.PlaceholderBaseURL),
	)
	c.ImagesHandler = images.NewHandlerImpl(c.ImagesService, logger)

	placesClient := &http.Client{
		Timeout:   cfg.Images.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	placesService := places.NewServiceImpl(placesClient, cfg.Places.BaseURL, cfg.Places.UserAgent,
		cfg.Places.CacheTTL, logger, m)
	c.PlacesHandler = places.NewHandlerImpl(placesService, logger)

	return c, nil
}

func (c *Container) newCacheStore(ctx context.Context) (imagecache.Store, error) {
	switch strings.ToLower(c.Config.Cache.Backend) {
	case "memory":
		return imagecache.NewMemoryStore(nil), nil
	case "", "file":
		return imagecache.NewFileStore(nil, c.Config.Cache.Dir, c.Config.Cache.StorageKey), nil
	case "postgres":
		dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
		if err != nil {
			return nil, err
		}
		if err = database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		pool, err := database.Init(dbConfig.ConnectionURL, c.Logger)
		if err != nil {
			return nil, err
		}
		c.Pool = pool
		if !database.WaitForDB(ctx, pool, c.Logger) {
			return nil, errors.New("database not ready")
		}
		return imagecache.NewPostgresStore(pool, c.Config.Cache.StorageKey, c.Logger), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Config.Cache.Backend)
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

package router

import (
	"fmt"
	"net/http"

	catalogsvc "artisan-market/internal/application/catalog"
	lesvc "artisan-market/internal/application/listingevents"
	"artisan-market/internal/config"
	"artisan-market/internal/infrastructure/database"
	cataloghandler "artisan-market/internal/interfaces/handlers/catalog"
	healthhandler "artisan-market/internal/interfaces/handlers/health"
	lehandler "artisan-market/internal/interfaces/handlers/listingevents"
	"artisan-market/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Multipart overhead on top of the largest accepted image.
const bodyLimit = 8 * 1024 * 1024

// CreateApp wires the catalog, the optional journal and the optional Redis traffic stats.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               bodyLimit,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix:  cfg.FrontendURLEndsWith,
		DevPassword:    cfg.DevPassword,
		AllowLocalhost: !cfg.IsProduction(),
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
	}
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	var journal *lesvc.Service
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
		journal = &lesvc.Service{DB: db}
	} else {
		log.Info().Msg("listing event journal disabled")
	}

	store, err := newStore(cfg, journal)
	if err != nil {
		return nil, nil, nil, err
	}

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		Catalog:        store,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if journal != nil {
		hh.Journal = journal
	}
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	ch := &cataloghandler.Handlers{Store: store, WaitTimeout: cfg.ImageEncodeTimeout}
	cg := app.Group("/api/v1/catalog")
	ch.Register(cg)

	leh := &lehandler.Handlers{Service: journal}
	cg.Get("/events", leh.ListEvents)

	return app, db, rdb, nil
}

func newStore(cfg *config.Config, journal *lesvc.Service) (*catalogsvc.Store, error) {
	scheme, err := catalogsvc.ParseIDScheme(cfg.ListingIDScheme)
	if err != nil {
		return nil, err
	}
	opts := []catalogsvc.Option{
		catalogsvc.WithIDScheme(scheme),
		catalogsvc.WithEncodeTimeout(cfg.ImageEncodeTimeout),
	}
	if journal != nil {
		opts = append(opts, catalogsvc.WithRecorder(journal))
	}
	if cfg.CatalogSeedFile != "" {
		seed, err := catalogsvc.LoadSeedFile(cfg.CatalogSeedFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalogsvc.WithSeed(seed))
		log.Info().Str("file", cfg.CatalogSeedFile).Int("listings", len(seed)).Msg("catalog seed loaded")
	}
	return catalogsvc.New(opts...), nil
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}

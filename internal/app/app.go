package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/pirex/internal/cache"
	"github.com/temcen/pirex/internal/catalog"
	"github.com/temcen/pirex/internal/config"
	"github.com/temcen/pirex/internal/database"
	"github.com/temcen/pirex/internal/engine"
	"github.com/temcen/pirex/internal/handlers"
	"github.com/temcen/pirex/internal/matrixfactorization"
	"github.com/temcen/pirex/internal/metrics"
	"github.com/temcen/pirex/internal/middleware"
	"github.com/temcen/pirex/internal/services"
	"github.com/temcen/pirex/internal/tracking"
	"github.com/temcen/pirex/internal/validation"
)

type App struct {
	config     *config.Config
	logger     *logrus.Logger
	db         *database.Database
	services   *services.Services
	handlers   *handlers.Handlers
	validation *middleware.ValidationMiddleware
	router     *gin.Engine
	consumer   *tracking.ActionConsumer
	cancelBus  context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	svc, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = svc

	store := tracking.NewPostgresTrackingService(db.PG, db.Neo4j)
	cat := catalog.NewPostgresCatalog(db.PG, 0)
	predictor := matrixfactorization.NewLatentFactorPredictor(db.PG)
	redisCache := cache.NewRedisCache(db.Redis)
	recorder := metrics.NewRecorder()

	orchestrator := engine.NewOrchestrator(store, predictor, cat, redisCache, recorder, app.logger, engine.OrchestratorConfig{
		SequenceWindow:      cfg.Engine.SequenceWindow,
		SessionTimeout:      cfg.Engine.SessionTimeout,
		RatingThreshold:     cfg.Engine.RatingThreshold,
		MaturityTierLow:     cfg.Engine.MaturityTierLow,
		MaturityTierMid:     cfg.Engine.MaturityTierMid,
		CacheTTL:            cfg.Engine.CacheTTL,
		OrchestratorTimeout: cfg.Engine.OrchestratorTimeout,
	})

	app.handlers = handlers.New(app.logger, svc, cfg, orchestrator, store, cat)

	actionValidator, err := validation.NewActionValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize action validator: %w", err)
	}
	app.validation = middleware.NewValidationMiddleware(actionValidator)

	if len(cfg.Kafka.Brokers) > 0 {
		app.consumer = tracking.NewActionConsumer(cfg, store, actionValidator, app.logger)

		ctx, cancel := context.WithCancel(context.Background())
		app.cancelBus = cancel
		go func() {
			if err := app.consumer.Run(ctx); err != nil && ctx.Err() == nil {
				app.logger.WithError(err).Error("action consumer stopped unexpectedly")
			}
		}()
	}

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.cancelBus != nil {
		a.cancelBus()
	}
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.WithError(err).Warn("error closing action consumer")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))
	router.Use(middleware.CompressionMiddleware())

	router.GET("/health", a.handlers.Health.Check)
	router.GET("/health/detailed", a.handlers.Health.Check)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))
		api.Use(middleware.RateLimit(a.services.RateLimit, a.logger))

		cacheCfg := &middleware.CacheConfig{DefaultTTL: a.config.Engine.CacheTTL, KeyPrefix: "http-cache"}
		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("/:userId", a.validation.ValidateQueryParams(), middleware.CacheMiddleware(a.db.Redis, cacheCfg, a.logger), a.handlers.Recommendation.Get)
		}

		actions := api.Group("/actions")
		{
			actions.POST("", a.validation.ValidateHeaders(), a.validation.ValidateAction(), a.handlers.Action.Create)
			actions.POST("/batch", a.validation.ValidateHeaders(), a.handlers.Action.CreateBatch)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/engine/config", a.handlers.Admin.GetEngineConfig)
			admin.GET("/catalog/browse", a.handlers.Admin.BrowseCatalog)
		}
	}

	a.router = router
}

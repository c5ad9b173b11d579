// Package app wires configuration, storage and services into a runnable unit
// shared by the HTTP server and the operator CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
)

// Container holds long-lived dependencies.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB

	Cache   *repository.CacheRepository
	Metrics *service.MetricsService

	Placements     *repository.PlacementRepository
	Catalog        *repository.CatalogRepository
	Teachers       *repository.TeacherRepository
	ChangeRequests *repository.ChangeRequestRepository

	Tokens            *service.TokenService
	Generator         *service.TimetableGeneratorService
	Timetable         *service.TimetableService
	TeacherDirectory  *service.TeacherService
	ChangeRequestFlow *service.ChangeRequestService
	Dashboard         *service.DashboardService
}

// New connects to PostgreSQL (and Redis when enabled), applies migrations when
// AUTO_MIGRATE is set and constructs every service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := migrateUp(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}

	c := &Container{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		Cache:          repository.NewCacheRepository(redisClient, logger),
		Metrics:        service.NewMetricsService(),
		Placements:     repository.NewPlacementRepository(db),
		Catalog:        repository.NewCatalogRepository(db),
		Teachers:       repository.NewTeacherRepository(db),
		ChangeRequests: repository.NewChangeRequestRepository(db),
	}
	c.wireServices(redisClient != nil)
	return c, nil
}

func (c *Container) wireServices(cacheEnabled bool) {
	cfg := c.Config
	cacheSvc := service.NewCacheService(c.Cache, c.Metrics, cfg.Timetable.CacheTTL, c.Logger, cacheEnabled)

	c.Tokens = service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		Expiry: cfg.JWT.Expiration,
	})
	c.Generator = service.NewTimetableGeneratorService(
		c.Placements,
		c.Catalog,
		c.DB,
		cacheSvc,
		c.Metrics,
		c.Logger.Named("generator"),
		service.TimetableGeneratorConfig{
			LockKey:      cfg.Scheduler.LockKey,
			DefaultHours: cfg.Scheduler.DefaultHours,
		},
	)
	c.Timetable = service.NewTimetableService(c.Placements, cacheSvc, cfg.Timetable.CacheTTL, c.Logger)
	c.TeacherDirectory = service.NewTeacherService(c.Teachers, c.Logger.Named("teachers"))
	c.ChangeRequestFlow = service.NewChangeRequestService(c.ChangeRequests, c.Placements, nil, c.Metrics, c.Logger.Named("change_requests"))
	c.Dashboard = service.NewDashboardService(c.Catalog, cacheSvc, c.Metrics, cfg.Timetable.CacheTTL, c.Logger)
}

// Close releases connections.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func migrateUp(ctx context.Context, db *sqlx.DB) error {
	migrator, err := database.NewMigrator(ctx, db)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer migrator.Close() //nolint:errcheck
	return migrator.Up()
}

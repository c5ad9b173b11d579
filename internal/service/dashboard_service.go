package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

type catalogReader interface {
	Counts(ctx context.Context) (*models.CatalogCounts, error)
	ListBranches(ctx context.Context) ([]models.Branch, error)
}

// DashboardService composes the admin overview and catalog lookups.
type DashboardService struct {
	catalog  catalogReader
	cache    timetableCache
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(catalog catalogReader, cache timetableCache, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{catalog: catalog, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns catalog counters and a metrics snapshot.
func (s *DashboardService) Overview(ctx context.Context) (*dto.DashboardResponse, error) {
	counts, err := s.catalog.Counts(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to load dashboard counters")
	}
	resp := &dto.DashboardResponse{Counts: *counts}
	if s.metrics != nil {
		resp.Metrics = s.metrics.Snapshot()
	}
	return resp, nil
}

// Branches lists branches, served from cache when available. Generation clears
// the shared timetable prefix so branch renames become visible after the next run.
func (s *DashboardService) Branches(ctx context.Context) ([]models.Branch, error) {
	const key = timetableCachePrefix + "branches"
	var cached []models.Branch
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}
	branches, err := s.catalog.ListBranches(ctx)
	if err != nil {
		return nil, storageFailure(err, "failed to list branches")
	}
	if branches == nil {
		branches = []models.Branch{}
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, branches, s.cacheTTL); err != nil {
			s.logger.Debug("branch cache set skipped", zap.Error(err))
		}
	}
	return branches, nil
}

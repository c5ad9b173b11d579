package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type catalogReaderStub struct {
	counts      *models.CatalogCounts
	branches    []models.Branch
	err         error
	branchCalls int
}

func (s *catalogReaderStub) Counts(ctx context.Context) (*models.CatalogCounts, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func (s *catalogReaderStub) ListBranches(ctx context.Context) ([]models.Branch, error) {
	s.branchCalls++
	return s.branches, s.err
}

func TestDashboardServiceOverview(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveGeneration(&models.GenerationResult{Placed: 12, Conflicts: []models.Conflict{{Kind: models.ConflictPartial}}}, nil)
	catalog := &catalogReaderStub{counts: &models.CatalogCounts{Teachers: 4, ScheduledClasses: 12, PendingRequests: 1}}
	svc := NewDashboardService(catalog, nil, metrics, time.Minute, nil)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, overview.Counts.Teachers)
	snapshot, ok := overview.Metrics.(MetricsSnapshot)
	require.True(t, ok)
	assert.Equal(t, uint64(1), snapshot.GenerationRuns)
	assert.Equal(t, int64(12), snapshot.LastRunPlaced)
	assert.Equal(t, int64(1), snapshot.LastRunConflicts)
}

func TestDashboardServiceOverviewError(t *testing.T) {
	svc := NewDashboardService(&catalogReaderStub{err: errors.New("down")}, nil, nil, time.Minute, nil)
	_, err := svc.Overview(context.Background())
	assert.True(t, appErrors.Is(err, appErrors.ErrStorageFailure))
}

func TestDashboardServiceBranchesCached(t *testing.T) {
	catalog := &catalogReaderStub{branches: []models.Branch{{ID: 1, Name: "Computer Science", Code: "CSE"}}}
	cache := &timetableCacheStub{}
	svc := NewDashboardService(catalog, cache, nil, time.Minute, nil)

	first, err := svc.Branches(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Branches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, catalog.branchCalls)
}

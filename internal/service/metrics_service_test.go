package service

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestMetricsServiceGenerationCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveGeneration(&models.GenerationResult{
		Placed:    5,
		Duration:  20 * time.Millisecond,
		Conflicts: []models.Conflict{{Kind: models.ConflictPartial}, {Kind: models.ConflictNoSuitableRoom}},
	}, nil)
	m.ObserveGeneration(nil, errors.New("storage"))
	m.RecordGenerationRejected()
	m.RecordChangeRequest(models.ChangeRequestApproved)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationRuns.WithLabelValues("with_conflicts")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationRuns.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generationRuns.WithLabelValues("rejected")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.placementsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflictsTotal.WithLabelValues(string(models.ConflictPartial))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.changeRequests.WithLabelValues("approved")))

	snapshot := m.Snapshot()
	assert.Equal(t, uint64(1), snapshot.GenerationRuns)
	assert.Equal(t, int64(5), snapshot.LastRunPlaced)
	assert.Equal(t, int64(2), snapshot.LastRunConflicts)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveGeneration(&models.GenerationResult{}, nil)
		m.RecordChangeRequest(models.ChangeRequestPending)
		_ = m.Snapshot()
	})
}

func TestMetricsServiceCacheRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.ObserveHTTPRequest("GET", "/timetable", 200, 4*time.Millisecond)

	snapshot := m.Snapshot()
	assert.InDelta(t, 2.0/3.0, snapshot.CacheHitRatio, 0.0001)
	assert.Equal(t, uint64(1), snapshot.RequestsTotal)
	assert.InDelta(t, 4.0, snapshot.AverageRequestDurationMs, 0.01)
}

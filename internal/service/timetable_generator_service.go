package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/repository"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// placementStore is the conflict oracle plus the placement writer. Every call of
// a run receives the same transaction so the oracle sees the run's own commits.
type placementStore interface {
	TryAdvisoryLock(ctx context.Context, exec sqlx.ExtContext, key int64) (bool, error)
	ClearUnlocked(ctx context.Context, exec sqlx.ExtContext) (int64, error)
	HasConflict(ctx context.Context, exec sqlx.ExtContext, teacherID, batchID, roomID, slotID int64) (bool, error)
	Commit(ctx context.Context, exec sqlx.ExtContext, placement *models.Placement) error
}

type allocationCatalog interface {
	ListObligations(ctx context.Context, exec sqlx.ExtContext) ([]models.TeachingObligation, error)
	ListTimeSlots(ctx context.Context, exec sqlx.ExtContext) ([]models.TimeSlot, error)
	ListRooms(ctx context.Context, exec sqlx.ExtContext) ([]models.Room, error)
}

type timetableCacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// OrderingPolicy fixes the search order of a run. Placement results depend only
// on the catalog contents and this order.
type OrderingPolicy interface {
	Obligations(items []models.TeachingObligation)
	Slots(items []models.TimeSlot)
	Rooms(items []models.Room)
}

// DefaultOrdering visits obligations by assignment id, slots by (day, index, id)
// and rooms by descending capacity then id.
type DefaultOrdering struct{}

// Obligations implements OrderingPolicy.
func (DefaultOrdering) Obligations(items []models.TeachingObligation) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].AssignmentID < items[j].AssignmentID })
}

// Slots implements OrderingPolicy.
func (DefaultOrdering) Slots(items []models.TimeSlot) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		if a.SlotIndex != b.SlotIndex {
			return a.SlotIndex < b.SlotIndex
		}
		return a.ID < b.ID
	})
}

// Rooms implements OrderingPolicy.
func (DefaultOrdering) Rooms(items []models.Room) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Capacity != items[j].Capacity {
			return items[i].Capacity > items[j].Capacity
		}
		return items[i].ID < items[j].ID
	})
}

// TimetableGeneratorConfig governs generator behaviour.
type TimetableGeneratorConfig struct {
	// LockKey enables the cross-instance advisory lock when non-zero.
	LockKey      int64
	DefaultHours int
	Ordering     OrderingPolicy
}

// TimetableGeneratorService rebuilds the unlocked part of the weekly grid.
type TimetableGeneratorService struct {
	placements placementStore
	catalog    allocationCatalog
	tx         txProvider
	cache      timetableCacheInvalidator
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        TimetableGeneratorConfig
	running    sync.Mutex
	now        func() time.Time
}

// NewTimetableGeneratorService wires generator dependencies.
func NewTimetableGeneratorService(
	placements placementStore,
	catalog allocationCatalog,
	tx txProvider,
	cache timetableCacheInvalidator,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg TimetableGeneratorConfig,
) *TimetableGeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultHours <= 0 {
		cfg.DefaultHours = 1
	}
	if cfg.Ordering == nil {
		cfg.Ordering = DefaultOrdering{}
	}
	return &TimetableGeneratorService{
		placements: placements,
		catalog:    catalog,
		tx:         tx,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Generate clears unlocked placements and greedily places every teaching
// obligation. Obligations that cannot be fully placed are reported as conflicts,
// never as errors. Any storage failure rolls the whole run back.
func (s *TimetableGeneratorService) Generate(ctx context.Context) (*models.GenerationResult, error) {
	if s.tx == nil || s.placements == nil || s.catalog == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "timetable generator not configured")
	}
	if !s.running.TryLock() {
		s.metrics.RecordGenerationRejected()
		return nil, appErrors.Clone(appErrors.ErrGenerationInProgress, "")
	}
	defer s.running.Unlock()

	result, err := s.run(ctx)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrGenerationInProgress) {
			s.metrics.RecordGenerationRejected()
		} else {
			s.metrics.ObserveGeneration(nil, err)
		}
		return nil, err
	}
	s.metrics.ObserveGeneration(result, nil)

	if s.cache != nil {
		if cacheErr := s.cache.Invalidate(ctx, timetableCachePattern); cacheErr != nil {
			s.logger.Warn("timetable cache invalidation failed", zap.String("run_id", result.RunID), zap.Error(cacheErr))
		}
	}

	s.logger.Info("timetable generated",
		zap.String("run_id", result.RunID),
		zap.Int("obligations", result.Scheduled),
		zap.Int("placed", result.Placed),
		zap.Int64("cleared", result.Cleared),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *TimetableGeneratorService) run(ctx context.Context) (result *models.GenerationResult, err error) {
	started := s.now().UTC()
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storageFailure(err, "failed to begin generation transaction")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("generation rollback failed", zap.Error(rbErr))
			}
		}
	}()

	if s.cfg.LockKey != 0 {
		acquired, lockErr := s.placements.TryAdvisoryLock(ctx, tx, s.cfg.LockKey)
		if lockErr != nil {
			err = storageFailure(lockErr, "failed to acquire generation lock")
			return nil, err
		}
		if !acquired {
			err = appErrors.Clone(appErrors.ErrGenerationInProgress, "timetable generation already running on another instance")
			return nil, err
		}
	}

	cleared, err := s.placements.ClearUnlocked(ctx, tx)
	if err != nil {
		err = storageFailure(err, "failed to clear unlocked placements")
		return nil, err
	}

	obligations, err := s.catalog.ListObligations(ctx, tx)
	if err != nil {
		err = storageFailure(err, "failed to load teaching obligations")
		return nil, err
	}
	slots, err := s.catalog.ListTimeSlots(ctx, tx)
	if err != nil {
		err = storageFailure(err, "failed to load time slots")
		return nil, err
	}
	rooms, err := s.catalog.ListRooms(ctx, tx)
	if err != nil {
		err = storageFailure(err, "failed to load rooms")
		return nil, err
	}

	s.cfg.Ordering.Obligations(obligations)
	s.cfg.Ordering.Slots(slots)
	s.cfg.Ordering.Rooms(rooms)

	builder := newGenerationBuilder(runID, started)
	for _, obligation := range obligations {
		if err = ctx.Err(); err != nil {
			err = appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, "generation cancelled")
			return nil, err
		}
		if err = s.placeObligation(ctx, tx, obligation, slots, rooms, builder); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = storageFailure(err, "failed to commit generated timetable")
		return nil, err
	}

	builder.cleared = cleared
	return builder.build(s.now().UTC()), nil
}

// placeObligation walks slots in order and, within each slot, suitable rooms in
// order, committing a placement whenever the oracle reports the cell free.
func (s *TimetableGeneratorService) placeObligation(
	ctx context.Context,
	exec sqlx.ExtContext,
	obligation models.TeachingObligation,
	slots []models.TimeSlot,
	rooms []models.Room,
	builder *generationBuilder,
) error {
	required := obligation.HoursPerWeek
	if required <= 0 {
		required = s.cfg.DefaultHours
	}
	builder.visit()

	suitable := suitableRooms(rooms, obligation)
	if len(suitable) == 0 {
		builder.conflict(models.NoSuitableRoomConflict(obligation, required))
		return nil
	}

	scheduled := 0
	for _, slot := range slots {
		if scheduled >= required {
			break
		}
		for _, room := range suitable {
			if scheduled >= required {
				break
			}
			busy, err := s.placements.HasConflict(ctx, exec, obligation.TeacherID, obligation.BatchID, room.ID, slot.ID)
			if err != nil {
				return storageFailure(err, "failed to check placement conflict")
			}
			if busy {
				continue
			}
			placement := &models.Placement{
				CourseID:   obligation.CourseID,
				BatchID:    obligation.BatchID,
				TeacherID:  obligation.TeacherID,
				RoomID:     room.ID,
				TimeSlotID: slot.ID,
			}
			if err := s.placements.Commit(ctx, exec, placement); err != nil {
				if errors.Is(err, repository.ErrSlotTaken) {
					return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "placement collided with a concurrent writer")
				}
				return storageFailure(err, "failed to commit placement")
			}
			scheduled++
			builder.placed++
		}
	}

	if scheduled < required {
		builder.conflict(models.PartialConflict(obligation, scheduled, required))
	}
	return nil
}

func suitableRooms(rooms []models.Room, obligation models.TeachingObligation) []models.Room {
	suitable := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Fits(obligation.RoomTypeRequired, obligation.BatchSize) {
			suitable = append(suitable, room)
		}
	}
	return suitable
}

func storageFailure(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrStorageFailure.Code, appErrors.ErrStorageFailure.Status, message)
}

// generationBuilder accumulates the outcome of a single run.
type generationBuilder struct {
	runID     string
	started   time.Time
	visited   int
	placed    int
	cleared   int64
	conflicts []models.Conflict
}

func newGenerationBuilder(runID string, started time.Time) *generationBuilder {
	return &generationBuilder{runID: runID, started: started, conflicts: []models.Conflict{}}
}

func (b *generationBuilder) visit() { b.visited++ }

func (b *generationBuilder) conflict(c models.Conflict) {
	b.conflicts = append(b.conflicts, c)
}

func (b *generationBuilder) build(finished time.Time) *models.GenerationResult {
	return &models.GenerationResult{
		RunID:      b.runID,
		Scheduled:  b.visited,
		Placed:     b.placed,
		Cleared:    b.cleared,
		Conflicts:  b.conflicts,
		StartedAt:  b.started,
		FinishedAt: finished,
		Duration:   finished.Sub(b.started),
	}
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// CatalogRepository reads the reference data the allocator and dashboards consume.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListObligations joins teaching assignments with their course load and batch size.
func (r *CatalogRepository) ListObligations(ctx context.Context, exec sqlx.ExtContext) ([]models.TeachingObligation, error) {
	const query = `SELECT ta.id, ta.course_id, ta.batch_id, ta.teacher_id, ta.room_type_required,
	c.hours_per_week, c.type AS course_type, b.size AS batch_size
FROM teaching_assignments ta
JOIN courses c ON ta.course_id = c.id
JOIN batches b ON ta.batch_id = b.id
ORDER BY ta.id`
	var obligations []models.TeachingObligation
	if err := sqlx.SelectContext(ctx, r.exec(exec), &obligations, query); err != nil {
		return nil, fmt.Errorf("list teaching obligations: %w", err)
	}
	return obligations, nil
}

// ListTimeSlots returns the weekly grid ordered by day then slot index.
func (r *CatalogRepository) ListTimeSlots(ctx context.Context, exec sqlx.ExtContext) ([]models.TimeSlot, error) {
	const query = `SELECT id, day_of_week, slot_index, start_time, end_time FROM time_slots ORDER BY day_of_week, slot_index, id`
	var slots []models.TimeSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	return slots, nil
}

// ListRooms returns rooms largest first.
func (r *CatalogRepository) ListRooms(ctx context.Context, exec sqlx.ExtContext) ([]models.Room, error) {
	const query = `SELECT id, name, type, capacity FROM rooms ORDER BY capacity DESC, id`
	var rooms []models.Room
	if err := sqlx.SelectContext(ctx, r.exec(exec), &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListBranches returns every branch by name.
func (r *CatalogRepository) ListBranches(ctx context.Context) ([]models.Branch, error) {
	const query = `SELECT id, name, code FROM branches ORDER BY name, id`
	var branches []models.Branch
	if err := r.db.SelectContext(ctx, &branches, query); err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// Counts gathers dashboard totals in a single round trip.
func (r *CatalogRepository) Counts(ctx context.Context) (*models.CatalogCounts, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM teachers) AS teachers,
	(SELECT COUNT(*) FROM courses) AS courses,
	(SELECT COUNT(*) FROM rooms) AS rooms,
	(SELECT COUNT(*) FROM batches) AS batches,
	(SELECT COUNT(*) FROM scheduled_classes) AS scheduled_classes,
	(SELECT COUNT(*) FROM scheduled_classes WHERE is_locked = TRUE) AS locked_classes,
	(SELECT COUNT(*) FROM change_requests WHERE status = 'pending') AS pending_requests`
	var counts models.CatalogCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count catalog: %w", err)
	}
	return &counts, nil
}

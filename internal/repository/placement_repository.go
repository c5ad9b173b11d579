package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ErrSlotTaken is returned by Commit when a per-slot uniqueness constraint rejects the row.
var ErrSlotTaken = errors.New("time slot already taken")

const uniqueViolation = pq.ErrorCode("23505")

// PlacementRepository owns the scheduled_classes table: the conflict oracle,
// the placement writer and timetable reads.
type PlacementRepository struct {
	db *sqlx.DB
}

// NewPlacementRepository creates a new placement repository.
func NewPlacementRepository(db *sqlx.DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

func (r *PlacementRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// TryAdvisoryLock takes a transaction-scoped advisory lock. It reports false when
// another session already holds the key. exec must be a transaction.
func (r *PlacementRepository) TryAdvisoryLock(ctx context.Context, exec sqlx.ExtContext, key int64) (bool, error) {
	var acquired bool
	if err := sqlx.GetContext(ctx, r.exec(exec), &acquired, `SELECT pg_try_advisory_xact_lock($1)`, key); err != nil {
		return false, fmt.Errorf("acquire generation lock: %w", err)
	}
	return acquired, nil
}

// ClearUnlocked removes every placement not marked locked.
func (r *PlacementRepository) ClearUnlocked(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	result, err := r.exec(exec).ExecContext(ctx, `DELETE FROM scheduled_classes WHERE is_locked = FALSE`)
	if err != nil {
		return 0, fmt.Errorf("clear unlocked placements: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared placements: %w", err)
	}
	return rows, nil
}

// HasConflict reports whether any placement, locked or not, already occupies the
// slot with the same teacher, batch or room.
func (r *PlacementRepository) HasConflict(ctx context.Context, exec sqlx.ExtContext, teacherID, batchID, roomID, slotID int64) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM scheduled_classes
		WHERE time_slot_id = $1 AND (teacher_id = $2 OR batch_id = $3 OR room_id = $4)
	)`
	var exists bool
	if err := sqlx.GetContext(ctx, r.exec(exec), &exists, query, slotID, teacherID, batchID, roomID); err != nil {
		return false, fmt.Errorf("check placement conflict: %w", err)
	}
	return exists, nil
}

// Commit inserts an unlocked placement and fills its id and creation time.
func (r *PlacementRepository) Commit(ctx context.Context, exec sqlx.ExtContext, placement *models.Placement) error {
	if placement == nil {
		return fmt.Errorf("placement payload is nil")
	}
	const query = `INSERT INTO scheduled_classes (course_id, batch_id, teacher_id, room_id, time_slot_id, is_locked)
	VALUES ($1, $2, $3, $4, $5, FALSE)
	RETURNING id, created_at`
	row := r.exec(exec).QueryRowxContext(ctx, query,
		placement.CourseID,
		placement.BatchID,
		placement.TeacherID,
		placement.RoomID,
		placement.TimeSlotID,
	)
	if err := row.Scan(&placement.ID, &placement.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("commit placement (%s): %w", pqErr.Constraint, ErrSlotTaken)
		}
		return fmt.Errorf("commit placement: %w", err)
	}
	placement.IsLocked = false
	return nil
}

// FindByID loads a placement by id.
func (r *PlacementRepository) FindByID(ctx context.Context, id int64) (*models.Placement, error) {
	const query = `SELECT id, course_id, batch_id, teacher_id, room_id, time_slot_id, is_locked, created_at FROM scheduled_classes WHERE id = $1`
	var placement models.Placement
	if err := r.db.GetContext(ctx, &placement, query, id); err != nil {
		return nil, err
	}
	return &placement, nil
}

// SetLocked pins or unpins a placement.
func (r *PlacementRepository) SetLocked(ctx context.Context, id int64, locked bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE scheduled_classes SET is_locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return fmt.Errorf("update placement lock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check placement lock rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const placementDetailSelect = `SELECT
	sc.id, sc.course_id, sc.batch_id, sc.teacher_id, sc.room_id, sc.time_slot_id, sc.is_locked, sc.created_at,
	c.name AS course_name, c.code AS course_code, c.type AS course_type,
	t.name AS teacher_name,
	r.name AS room_name, r.type AS room_type,
	ts.day_of_week, ts.slot_index, ts.start_time, ts.end_time,
	b.name AS batch_name, b.section, b.semester, b.year,
	br.id AS branch_id, br.name AS branch_name
FROM scheduled_classes sc
JOIN courses c ON sc.course_id = c.id
JOIN teachers t ON sc.teacher_id = t.id
JOIN rooms r ON sc.room_id = r.id
JOIN time_slots ts ON sc.time_slot_id = ts.id
JOIN batches b ON sc.batch_id = b.id
JOIN branches br ON b.branch_id = br.id`

// ListDetails returns the flattened timetable ordered by day then slot.
func (r *PlacementRepository) ListDetails(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.BranchID > 0 {
		args = append(args, filter.BranchID)
		conditions = append(conditions, fmt.Sprintf("br.id = $%d", len(args)))
	}
	if filter.Semester > 0 {
		args = append(args, filter.Semester)
		conditions = append(conditions, fmt.Sprintf("b.semester = $%d", len(args)))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		conditions = append(conditions, fmt.Sprintf("b.year = $%d", len(args)))
	}
	if filter.TeacherID > 0 {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("t.id = $%d", len(args)))
	}
	if filter.BatchID > 0 {
		args = append(args, filter.BatchID)
		conditions = append(conditions, fmt.Sprintf("b.id = $%d", len(args)))
	}

	query := placementDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ts.day_of_week, ts.slot_index, sc.id"

	var details []models.PlacementDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return details, nil
}

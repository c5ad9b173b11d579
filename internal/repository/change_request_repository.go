package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ChangeRequestRepository persists change request workflow data.
type ChangeRequestRepository struct {
	db *sqlx.DB
}

// NewChangeRequestRepository constructs the repository.
func NewChangeRequestRepository(db *sqlx.DB) *ChangeRequestRepository {
	return &ChangeRequestRepository{db: db}
}

// Create inserts a new pending request and fills generated columns.
func (r *ChangeRequestRepository) Create(ctx context.Context, request *models.ChangeRequest) error {
	if request.Status == "" {
		request.Status = models.ChangeRequestPending
	}
	if request.RequestedAt.IsZero() {
		request.RequestedAt = time.Now().UTC()
	}
	const query = `INSERT INTO change_requests (scheduled_class_id, course_id, batch_id, room_id, time_slot_id, teacher_id, reason, status, requested_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id`
	row := r.db.QueryRowxContext(ctx, query,
		request.ScheduledClassID,
		request.CourseID,
		request.BatchID,
		request.RoomID,
		request.TimeSlotID,
		request.TeacherID,
		request.Reason,
		request.Status,
		request.RequestedAt,
	)
	if err := row.Scan(&request.ID); err != nil {
		return fmt.Errorf("create change request: %w", err)
	}
	return nil
}

// GetByID fetches a change request by identifier.
func (r *ChangeRequestRepository) GetByID(ctx context.Context, id int64) (*models.ChangeRequest, error) {
	const query = `SELECT id, scheduled_class_id, course_id, batch_id, room_id, time_slot_id, teacher_id,
		reason, status, admin_notes, requested_at, processed_at
	FROM change_requests WHERE id = $1`
	var request models.ChangeRequest
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		return nil, err
	}
	return &request, nil
}

// Display fields come from the copy taken at filing, so requests whose class
// was cleared by regeneration still list.
const changeRequestDetailSelect = `SELECT
	cr.id, cr.scheduled_class_id, cr.course_id, cr.batch_id, cr.room_id, cr.time_slot_id, cr.teacher_id,
	cr.reason, cr.status, cr.admin_notes, cr.requested_at, cr.processed_at,
	t.name AS teacher_name,
	c.name AS course_name, c.code AS course_code,
	b.name AS batch_name, b.section,
	ts.day_of_week, ts.slot_index, ts.start_time, ts.end_time,
	r.name AS room_name
FROM change_requests cr
JOIN teachers t ON cr.teacher_id = t.id
JOIN courses c ON cr.course_id = c.id
JOIN batches b ON cr.batch_id = b.id
JOIN time_slots ts ON cr.time_slot_id = ts.id
JOIN rooms r ON cr.room_id = r.id`

// GetDetail fetches one request joined with the display fields of its class.
func (r *ChangeRequestRepository) GetDetail(ctx context.Context, id int64) (*models.ChangeRequestDetail, error) {
	var detail models.ChangeRequestDetail
	if err := r.db.GetContext(ctx, &detail, changeRequestDetailSelect+" WHERE cr.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

const maxChangeRequestPage = 200

// List returns requests matching the filter, newest first. Without a limit the
// full result is returned.
func (r *ChangeRequestRepository) List(ctx context.Context, filter models.ChangeRequestFilter) ([]models.ChangeRequestDetail, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 2)
	builder.WriteString(changeRequestDetailSelect)

	conditions := make([]string, 0, 2)
	if filter.TeacherID > 0 {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("cr.teacher_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("cr.status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY cr.requested_at DESC, cr.id DESC")

	if filter.Limit > 0 {
		limit := filter.Limit
		if limit > maxChangeRequestPage {
			limit = maxChangeRequestPage
		}
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))
	}

	var requests []models.ChangeRequestDetail
	if err := r.db.SelectContext(ctx, &requests, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}
	return requests, nil
}

// Resolve moves a pending request to a terminal status. It returns sql.ErrNoRows
// when the request is missing or no longer pending.
func (r *ChangeRequestRepository) Resolve(ctx context.Context, id int64, status models.ChangeRequestStatus, notes *string, processedAt time.Time) error {
	const query = `UPDATE change_requests
	SET status = $1, admin_notes = $2, processed_at = $3
	WHERE id = $4 AND status = 'pending'`
	result, err := r.db.ExecContext(ctx, query, status, notes, processedAt, id)
	if err != nil {
		return fmt.Errorf("resolve change request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check change request update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

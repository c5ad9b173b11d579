package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func newPlacementRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestPlacementRepositoryClearUnlockedInsideTx(t *testing.T) {
	db, mock, cleanup := newPlacementRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM scheduled_classes WHERE is_locked = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	cleared, err := repo.ClearUnlocked(context.Background(), tx)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, int64(7), cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryHasConflict(t *testing.T) {
	db, mock, cleanup := newPlacementRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(4), int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(5), int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	busy, err := repo.HasConflict(context.Background(), nil, 1, 2, 3, 4)
	require.NoError(t, err)
	assert.True(t, busy)

	free, err := repo.HasConflict(context.Background(), nil, 1, 2, 3, 5)
	require.NoError(t, err)
	assert.False(t, free)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryCommit(t *testing.T) {
	db, mock, cleanup := newPlacementRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO scheduled_classes (course_id, batch_id, teacher_id, room_id, time_slot_id, is_locked)")).
		WithArgs(int64(10), int64(20), int64(30), int64(40), int64(50)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(99), now))

	placement := &models.Placement{CourseID: 10, BatchID: 20, TeacherID: 30, RoomID: 40, TimeSlotID: 50}
	require.NoError(t, repo.Commit(context.Background(), nil, placement))
	assert.Equal(t, int64(99), placement.ID)
	assert.False(t, placement.IsLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryCommitMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newPlacementRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO scheduled_classes")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_scheduled_classes_room_slot"})
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO scheduled_classes")).
		WillReturnError(errors.New("connection reset"))

	placement := &models.Placement{CourseID: 1, BatchID: 1, TeacherID: 1, RoomID: 1, TimeSlotID: 1}
	err := repo.Commit(context.Background(), nil, placement)
	require.ErrorIs(t, err, ErrSlotTaken)
	assert.Contains(t, err.Error(), "uq_scheduled_classes_room_slot")

	err = repo.Commit(context.Background(), nil, placement)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositoryTryAdvisoryLock(t *testing.T) {
	db, mock, cleanup := newPlacementRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT pg_try_advisory_xact_lock($1)")).
		WithArgs(int64(7305)).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_xact_lock"}).AddRow(false))

	acquired, err := repo.TryAdvisoryLock(context.Background(), nil, 7305)
	require.NoError(t, err)
	assert.False(t, acquired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementRepositorySetLockedMissingRow(t *testing.T) {
	db, mock, cleanup := newPlacementRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scheduled_classes SET is_locked = $1 WHERE id = $2")).
		WithArgs(true, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetLocked(context.Background(), 3, true)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var placementDetailColumns = []string{
	"id", "course_id", "batch_id", "teacher_id", "room_id", "time_slot_id", "is_locked", "created_at",
	"course_name", "course_code", "course_type", "teacher_name", "room_name", "room_type",
	"day_of_week", "slot_index", "start_time", "end_time",
	"batch_name", "section", "semester", "year", "branch_id", "branch_name",
}

func TestPlacementRepositoryListDetailsFilters(t *testing.T) {
	db, mock, cleanup := newPlacementRepoMock(t)
	defer cleanup()
	repo := NewPlacementRepository(db)

	rows := sqlmock.NewRows(placementDetailColumns).
		AddRow(int64(1), int64(10), int64(20), int64(30), int64(40), int64(50), true, time.Now(),
			"Algorithms", "CS301", "theory", "Dr. Rao", "A-101", "classroom",
			1, 1, "09:00", "10:00",
			"CSE 2024", "A", 3, 2024, int64(2), "Computer Science")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE br.id = $1 AND b.semester = $2 AND t.id = $3 ORDER BY ts.day_of_week, ts.slot_index, sc.id")).
		WithArgs(int64(2), 3, int64(30)).
		WillReturnRows(rows)

	list, err := repo.ListDetails(context.Background(), models.PlacementFilter{BranchID: 2, Semester: 3, TeacherID: 30})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	assert.True(t, list[0].IsLocked)
	assert.Equal(t, "Computer Science", list[0].BranchName)
	require.NotNil(t, list[0].Section)
	assert.Equal(t, "A", *list[0].Section)
	assert.NoError(t, mock.ExpectationsWereMet())
}

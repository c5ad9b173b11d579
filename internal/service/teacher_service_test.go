package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type teacherDirectoryStub struct {
	byUser     map[string]*models.Teacher
	teachers   []models.Teacher
	err        error
	lastSearch string
}

func (s *teacherDirectoryStub) List(ctx context.Context, search string) ([]models.Teacher, error) {
	s.lastSearch = search
	return s.teachers, s.err
}

func (s *teacherDirectoryStub) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	if s.err != nil {
		return nil, s.err
	}
	teacher, ok := s.byUser[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return teacher, nil
}

func TestTeacherServiceResolveCaller(t *testing.T) {
	repo := &teacherDirectoryStub{byUser: map[string]*models.Teacher{"u-1": {ID: 3, Name: "Ada"}}}
	svc := NewTeacherService(repo, nil)

	teacher, err := svc.ResolveCaller(context.Background(), &models.JWTClaims{UserID: "u-1", Role: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, int64(3), teacher.ID)

	_, err = svc.ResolveCaller(context.Background(), &models.JWTClaims{UserID: "u-2", Role: models.RoleTeacher})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.ResolveCaller(context.Background(), &models.JWTClaims{UserID: "u-1", Role: models.RoleStudent})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = svc.ResolveCaller(context.Background(), nil)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestTeacherServiceList(t *testing.T) {
	repo := &teacherDirectoryStub{}
	svc := NewTeacherService(repo, nil)

	teachers, err := svc.List(context.Background(), "  ada ")
	require.NoError(t, err)
	assert.NotNil(t, teachers)
	assert.Equal(t, "ada", repo.lastSearch)

	repo.err = errors.New("boom")
	_, err = svc.List(context.Background(), "")
	assert.True(t, appErrors.Is(err, appErrors.ErrStorageFailure))
}

func TestTeacherServiceResolveCallerLogsLookupFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	repo := &teacherDirectoryStub{byUser: map[string]*models.Teacher{}}
	svc := NewTeacherService(repo, zap.New(core))

	_, err := svc.ResolveCaller(context.Background(), &models.JWTClaims{UserID: "u-9", Role: models.RoleTeacher})
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
	unlinked := logs.FilterMessage("teacher account has no catalog profile").All()
	require.Len(t, unlinked, 1)
	assert.Equal(t, zapcore.WarnLevel, unlinked[0].Level)
	assert.Equal(t, "u-9", unlinked[0].ContextMap()["user_id"])

	repo.err = sql.ErrConnDone
	_, err = svc.ResolveCaller(context.Background(), &models.JWTClaims{UserID: "u-9", Role: models.RoleTeacher})
	assert.True(t, appErrors.Is(err, appErrors.ErrStorageFailure))
	failures := logs.FilterMessage("failed to resolve teacher").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
}

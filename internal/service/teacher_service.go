package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type teacherDirectory interface {
	List(ctx context.Context, search string) ([]models.Teacher, error)
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
}

// TeacherService maps identity-provider users onto catalog teachers.
type TeacherService struct {
	repo   teacherDirectory
	logger *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherDirectory, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, logger: logger}
}

// ResolveCaller returns the teacher record behind the authenticated user.
func (s *TeacherService) ResolveCaller(ctx context.Context, claims *models.JWTClaims) (*models.Teacher, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers can access this resource")
	}
	teacher, err := s.repo.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("teacher account has no catalog profile", zap.String("user_id", claims.UserID))
			return nil, appErrors.Clone(appErrors.ErrForbidden, "no teacher profile linked to this account")
		}
		s.logger.Error("failed to resolve teacher", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, storageFailure(err, "failed to resolve teacher")
	}
	return teacher, nil
}

// List returns teachers matching the optional search term.
func (s *TeacherService) List(ctx context.Context, search string) ([]models.Teacher, error) {
	teachers, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		s.logger.Error("failed to list teachers", zap.Error(err))
		return nil, storageFailure(err, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []models.Teacher{}
	}
	return teachers, nil
}

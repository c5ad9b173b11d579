package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type changeRequestStore interface {
	Create(ctx context.Context, request *models.ChangeRequest) error
	GetByID(ctx context.Context, id int64) (*models.ChangeRequest, error)
	GetDetail(ctx context.Context, id int64) (*models.ChangeRequestDetail, error)
	List(ctx context.Context, filter models.ChangeRequestFilter) ([]models.ChangeRequestDetail, error)
	Resolve(ctx context.Context, id int64, status models.ChangeRequestStatus, notes *string, processedAt time.Time) error
}

type placementLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Placement, error)
}

// ChangeRequestService runs the file/resolve workflow. Approval records the
// decision only; it never moves the scheduled class.
type ChangeRequestService struct {
	repo       changeRequestStore
	placements placementLookup
	validator  *validator.Validate
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// NewChangeRequestService constructs the service with defaults.
func NewChangeRequestService(repo changeRequestStore, placements placementLookup, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ChangeRequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeRequestService{
		repo:       repo,
		placements: placements,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// File records a pending request from the teacher who owns the scheduled class.
func (s *ChangeRequestService) File(ctx context.Context, teacherID int64, req dto.FileChangeRequest) (*models.ChangeRequest, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if req.ScheduledClassID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduled_class_id is required")
	}
	if req.Reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reason is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change request payload")
	}

	placement, err := s.placements.FindByID(ctx, req.ScheduledClassID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scheduled class not found")
		}
		return nil, storageFailure(err, "failed to load scheduled class")
	}
	if placement.TeacherID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrNotOwned, "")
	}

	placementID := placement.ID
	request := &models.ChangeRequest{
		ScheduledClassID: &placementID,
		CourseID:         placement.CourseID,
		BatchID:          placement.BatchID,
		RoomID:           placement.RoomID,
		TimeSlotID:       placement.TimeSlotID,
		TeacherID:        teacherID,
		Reason:           req.Reason,
		Status:           models.ChangeRequestPending,
		RequestedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, storageFailure(err, "failed to create change request")
	}
	s.metrics.RecordChangeRequest(models.ChangeRequestPending)
	s.logger.Info("change request filed",
		zap.Int64("change_request_id", request.ID),
		zap.Int64("scheduled_class_id", placementID),
		zap.Int64("teacher_id", teacherID),
	)
	return request, nil
}

// Resolve moves a pending request to approved or rejected exactly once.
func (s *ChangeRequestService) Resolve(ctx context.Context, id int64, req dto.ResolveChangeRequest) (*models.ChangeRequest, error) {
	req.Status = models.ChangeRequestStatus(strings.ToLower(strings.TrimSpace(string(req.Status))))
	if req.Status != models.ChangeRequestApproved && req.Status != models.ChangeRequestRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload")
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "change request not found")
		}
		return nil, storageFailure(err, "failed to load change request")
	}
	if request.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, "")
	}

	now := s.now().UTC()
	notes := optionalString(req.AdminNotes)
	if err := s.repo.Resolve(ctx, id, req.Status, notes, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Lost the race against a concurrent resolution.
			return nil, appErrors.Clone(appErrors.ErrAlreadyResolved, "")
		}
		return nil, storageFailure(err, "failed to resolve change request")
	}

	request.Status = req.Status
	request.AdminNotes = notes
	request.ProcessedAt = &now
	s.metrics.RecordChangeRequest(req.Status)
	s.logger.Info("change request resolved",
		zap.Int64("change_request_id", id),
		zap.String("status", string(req.Status)),
	)
	return request, nil
}

// Get returns one request with its display fields.
func (s *ChangeRequestService) Get(ctx context.Context, id int64) (*models.ChangeRequestDetail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "change request not found")
		}
		return nil, storageFailure(err, "failed to load change request")
	}
	return detail, nil
}

// ListForTeacher returns the teacher's own requests, newest first.
func (s *ChangeRequestService) ListForTeacher(ctx context.Context, teacherID int64) ([]models.ChangeRequestDetail, error) {
	return s.list(ctx, models.ChangeRequestFilter{TeacherID: teacherID})
}

// ListPending returns every pending request, newest first.
func (s *ChangeRequestService) ListPending(ctx context.Context) ([]models.ChangeRequestDetail, error) {
	return s.list(ctx, models.ChangeRequestFilter{Status: models.ChangeRequestPending})
}

// ListAll returns every request, newest first, optionally narrowed by status.
func (s *ChangeRequestService) ListAll(ctx context.Context, query dto.ChangeRequestQuery) ([]models.ChangeRequestDetail, error) {
	status := models.ChangeRequestStatus(strings.ToLower(strings.TrimSpace(string(query.Status))))
	switch status {
	case "", models.ChangeRequestPending, models.ChangeRequestApproved, models.ChangeRequestRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, approved or rejected")
	}
	return s.list(ctx, models.ChangeRequestFilter{Status: status, Limit: query.Limit, Offset: query.Offset})
}

func (s *ChangeRequestService) list(ctx context.Context, filter models.ChangeRequestFilter) ([]models.ChangeRequestDetail, error) {
	requests, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storageFailure(err, "failed to list change requests")
	}
	if requests == nil {
		requests = []models.ChangeRequestDetail{}
	}
	return requests, nil
}

func optionalString(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	return &v
}

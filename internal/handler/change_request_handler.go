package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type changeRequestService interface {
	File(ctx context.Context, teacherID int64, req dto.FileChangeRequest) (*models.ChangeRequest, error)
	Resolve(ctx context.Context, id int64, req dto.ResolveChangeRequest) (*models.ChangeRequest, error)
	Get(ctx context.Context, id int64) (*models.ChangeRequestDetail, error)
	ListForTeacher(ctx context.Context, teacherID int64) ([]models.ChangeRequestDetail, error)
	ListAll(ctx context.Context, query dto.ChangeRequestQuery) ([]models.ChangeRequestDetail, error)
}

// ChangeRequestHandler exposes the teacher filing and admin resolution endpoints.
type ChangeRequestHandler struct {
	service  changeRequestService
	teachers teacherResolver
}

// NewChangeRequestHandler constructs the handler.
func NewChangeRequestHandler(svc *service.ChangeRequestService, teachers *service.TeacherService) *ChangeRequestHandler {
	return &ChangeRequestHandler{service: svc, teachers: teachers}
}

// File godoc
// @Summary File a change request for one of the caller's classes
// @Tags Teacher
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.FileChangeRequest true "Change request payload"
// @Success 201 {object} response.Envelope{data=models.ChangeRequest}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/change-request [post]
func (h *ChangeRequestHandler) File(c *gin.Context) {
	if h.service == nil || h.teachers == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	teacher, err := h.teachers.ResolveCaller(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.FileChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid change request payload"))
		return
	}
	request, err := h.service.File(c.Request.Context(), teacher.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// ListMine godoc
// @Summary List the caller's change requests
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.ChangeRequestDetail}
// @Router /teacher/change-requests [get]
func (h *ChangeRequestHandler) ListMine(c *gin.Context) {
	if h.service == nil || h.teachers == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	teacher, err := h.teachers.ResolveCaller(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	requests, err := h.service.ListForTeacher(c.Request.Context(), teacher.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// List godoc
// @Summary List change requests
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope{data=[]models.ChangeRequestDetail}
// @Router /admin/change-requests [get]
func (h *ChangeRequestHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var query dto.ChangeRequestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	requests, err := h.service.ListAll(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Get godoc
// @Summary Get a change request
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Change request ID"
// @Success 200 {object} response.Envelope{data=models.ChangeRequestDetail}
// @Failure 404 {object} response.Envelope
// @Router /admin/change-requests/{id} [get]
func (h *ChangeRequestHandler) Get(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Resolve godoc
// @Summary Approve or reject a pending change request
// @Description Recording the decision never moves the scheduled class.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Change request ID"
// @Param payload body dto.ResolveChangeRequest true "Resolution payload"
// @Success 200 {object} response.Envelope{data=models.ChangeRequest}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/change-requests/{id} [put]
func (h *ChangeRequestHandler) Resolve(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ResolveChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resolution payload"))
		return
	}
	request, err := h.service.Resolve(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, request, nil)
}

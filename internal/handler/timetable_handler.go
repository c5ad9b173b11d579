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

type timetableGenerator interface {
	Generate(ctx context.Context) (*models.GenerationResult, error)
}

type timetableReader interface {
	List(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, bool, error)
	Grid(ctx context.Context, filter models.PlacementFilter) (*models.TimetableGrid, bool, error)
	Export(ctx context.Context, filter models.PlacementFilter, format service.ExportFormat) (*service.ExportedFile, error)
	SetLocked(ctx context.Context, id int64, locked bool) (*models.Placement, error)
}

// TimetableHandler exposes generation, timetable reads and pinning.
type TimetableHandler struct {
	generator timetableGenerator
	service   timetableReader
	teachers  teacherResolver
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(generator *service.TimetableGeneratorService, timetable *service.TimetableService, teachers *service.TeacherService) *TimetableHandler {
	return &TimetableHandler{generator: generator, service: timetable, teachers: teachers}
}

// Generate godoc
// @Summary Regenerate the weekly timetable
// @Description Clears every unlocked scheduled class and greedily places all teaching assignments. Obligations that cannot be fully placed are reported as conflicts.
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.GenerateTimetableResponse}
// @Failure 409 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /timetable/generate [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	if h.generator == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	result, err := h.generator.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewGenerateTimetableResponse(result), nil)
}

// List godoc
// @Summary List scheduled classes
// @Tags Timetable
// @Produce json
// @Param branch query int false "Branch ID"
// @Param semester query int false "Semester"
// @Param year query int false "Year"
// @Param teacher query int false "Teacher ID"
// @Param batch query int false "Batch ID"
// @Success 200 {object} response.Envelope{data=[]models.PlacementDetail}
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, ok := bindPlacementFilter(c)
	if !ok {
		return
	}
	details, hit, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil, responseMeta(c, hit))
}

// Grid godoc
// @Summary Timetable grouped by day and slot
// @Tags Timetable
// @Produce json
// @Param branch query int false "Branch ID"
// @Param semester query int false "Semester"
// @Param year query int false "Year"
// @Param teacher query int false "Teacher ID"
// @Param batch query int false "Batch ID"
// @Success 200 {object} response.Envelope{data=models.TimetableGrid}
// @Router /timetable/grid [get]
func (h *TimetableHandler) Grid(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, ok := bindPlacementFilter(c)
	if !ok {
		return
	}
	grid, hit, err := h.service.Grid(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil, responseMeta(c, hit))
}

// Export godoc
// @Summary Download the timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param branch query int false "Branch ID"
// @Param semester query int false "Semester"
// @Param year query int false "Year"
// @Param teacher query int false "Teacher ID"
// @Param batch query int false "Batch ID"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter, ok := bindPlacementFilter(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), filter, service.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// TeacherTimetable godoc
// @Summary Caller's own timetable
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.TimetableGrid}
// @Failure 403 {object} response.Envelope
// @Router /teacher/timetable [get]
func (h *TimetableHandler) TeacherTimetable(c *gin.Context) {
	if h.service == nil || h.teachers == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	teacher, err := h.teachers.ResolveCaller(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	grid, hit, err := h.service.Grid(c.Request.Context(), models.PlacementFilter{TeacherID: teacher.ID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil, responseMeta(c, hit))
}

// Lock godoc
// @Summary Pin or unpin a scheduled class
// @Description Locked classes survive regeneration and block their teacher, batch and room in that slot.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Scheduled class ID"
// @Param payload body dto.LockPlacementRequest true "Lock payload"
// @Success 200 {object} response.Envelope{data=models.Placement}
// @Failure 404 {object} response.Envelope
// @Router /admin/placements/{id}/lock [put]
func (h *TimetableHandler) Lock(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.LockPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Locked == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "locked flag is required"))
		return
	}
	placement, err := h.service.SetLocked(c.Request.Context(), id, *req.Locked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, placement, nil)
}

func bindPlacementFilter(c *gin.Context) (models.PlacementFilter, bool) {
	var filter models.PlacementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable filter"))
		return filter, false
	}
	return filter, true
}

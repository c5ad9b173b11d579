package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context) (*dto.DashboardResponse, error)
	Branches(ctx context.Context) ([]models.Branch, error)
}

type teacherLister interface {
	List(ctx context.Context, search string) ([]models.Teacher, error)
}

// DashboardHandler serves the admin overview and catalog lookups.
type DashboardHandler struct {
	service  dashboardService
	teachers teacherLister
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService, teachers teacherLister) *DashboardHandler {
	return &DashboardHandler{service: service, teachers: teachers}
}

// Admin godoc
// @Summary Admin dashboard summary
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=dto.DashboardResponse}
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Branches godoc
// @Summary List branches
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.Branch}
// @Router /catalog/branches [get]
func (h *DashboardHandler) Branches(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	branches, err := h.service.Branches(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, branches, nil)
}

// Teachers godoc
// @Summary List teachers
// @Tags Catalog
// @Produce json
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope{data=[]models.Teacher}
// @Router /catalog/teachers [get]
func (h *DashboardHandler) Teachers(c *gin.Context) {
	if h.teachers == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	teachers, err := h.teachers.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

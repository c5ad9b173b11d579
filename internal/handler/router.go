package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Routes bundles the handlers mounted under the API prefix.
type Routes struct {
	Tokens         middleware.TokenValidator
	Timetable      *TimetableHandler
	ChangeRequests *ChangeRequestHandler
	Dashboard      *DashboardHandler
	AuditLogger    *zap.Logger
}

// Register mounts every API route on the group.
func (r Routes) Register(api *gin.RouterGroup) {
	authenticated := middleware.JWT(r.Tokens)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	teacherOnly := middleware.RequireRoles(models.RoleTeacher)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(r.AuditLogger, action, resource)
	}

	timetable := api.Group("/timetable")
	timetable.POST("/generate", authenticated, adminOnly, audit("generate", "timetable"), r.Timetable.Generate)
	timetable.Use(middleware.OptionalJWT(r.Tokens))
	timetable.GET("", r.Timetable.List)
	timetable.GET("/grid", r.Timetable.Grid)
	timetable.GET("/export", r.Timetable.Export)

	catalog := api.Group("/catalog")
	catalog.GET("/branches", r.Dashboard.Branches)
	catalog.GET("/teachers", r.Dashboard.Teachers)

	teacher := api.Group("/teacher", authenticated, teacherOnly)
	teacher.GET("/timetable", r.Timetable.TeacherTimetable)
	teacher.POST("/change-request", audit("file", "change_request"), r.ChangeRequests.File)
	teacher.GET("/change-requests", r.ChangeRequests.ListMine)

	admin := api.Group("/admin", authenticated, adminOnly)
	admin.GET("/dashboard", r.Dashboard.Admin)
	admin.GET("/timetable", r.Timetable.List)
	admin.GET("/change-requests", r.ChangeRequests.List)
	admin.GET("/change-requests/:id", r.ChangeRequests.Get)
	admin.PUT("/change-requests/:id", audit("resolve", "change_request"), r.ChangeRequests.Resolve)
	admin.PUT("/placements/:id/lock", audit("lock", "scheduled_class"), r.Timetable.Lock)
}

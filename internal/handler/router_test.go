package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type roleTokens map[string]models.UserRole

func (r roleTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	role, ok := r[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return &models.JWTClaims{UserID: token, Role: role}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	routes := Routes{
		Tokens:    roleTokens{"admin": models.RoleAdmin, "teacher": models.RoleTeacher},
		Timetable: &TimetableHandler{generator: &generatorMock{result: &models.GenerationResult{}}, service: &timetableReaderMock{}, teachers: teacherResolverMock{teacher: &models.Teacher{ID: 1}}},
		ChangeRequests: &ChangeRequestHandler{
			service:  &changeRequestServiceMock{},
			teachers: teacherResolverMock{teacher: &models.Teacher{ID: 1}},
		},
		Dashboard: NewDashboardHandler(dashboardServiceMock{}, &teacherListerMock{}),
	}
	routes.Register(engine.Group("/api"))
	return engine
}

func TestRouterAccessControl(t *testing.T) {
	router := newTestRouter()
	cases := []struct {
		method string
		path   string
		token  string
		status int
	}{
		{http.MethodGet, "/api/timetable", "", http.StatusOK},
		{http.MethodGet, "/api/timetable/grid", "garbage", http.StatusOK},
		{http.MethodGet, "/api/catalog/branches", "", http.StatusOK},
		{http.MethodPost, "/api/timetable/generate", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/timetable/generate", "teacher", http.StatusForbidden},
		{http.MethodPost, "/api/timetable/generate", "admin", http.StatusOK},
		{http.MethodGet, "/api/teacher/timetable", "admin", http.StatusForbidden},
		{http.MethodGet, "/api/teacher/timetable", "teacher", http.StatusOK},
		{http.MethodGet, "/api/teacher/change-requests", "teacher", http.StatusOK},
		{http.MethodGet, "/api/admin/change-requests", "teacher", http.StatusForbidden},
		{http.MethodGet, "/api/admin/change-requests", "admin", http.StatusOK},
		{http.MethodGet, "/api/admin/dashboard", "admin", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path+" "+tc.token, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

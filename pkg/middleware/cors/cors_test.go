package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSAllowList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(New([]string{"https://timetable.example.edu/"}))
	router.GET("/timetable", func(c *gin.Context) { c.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/timetable", nil)
	req.Header.Set("Origin", "https://timetable.example.edu")
	router.ServeHTTP(recorder, req)
	assert.Equal(t, "https://timetable.example.edu", recorder.Header().Get("Access-Control-Allow-Origin"))

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/timetable", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	router.ServeHTTP(recorder, req)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/timetable", nil)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

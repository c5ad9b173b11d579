package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestTimetableServiceGridGroupsByDayAndSlot(t *testing.T) {
	section := "A"
	reader := &placementReaderStub{details: []models.PlacementDetail{
		{Placement: models.Placement{ID: 1}, CourseCode: "CS101", DayOfWeek: 1, SlotIndex: 1, StartTime: "09:00", EndTime: "10:00", BatchName: "CSE-1", Section: &section},
		{Placement: models.Placement{ID: 2}, CourseCode: "CS102", DayOfWeek: 1, SlotIndex: 1},
		{Placement: models.Placement{ID: 3, IsLocked: true}, CourseCode: "MA101", DayOfWeek: 3, SlotIndex: 5},
	}}
	svc := NewTimetableService(reader, nil, time.Minute, nil)

	grid, hit, err := svc.Grid(context.Background(), models.PlacementFilter{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, grid.Total)
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}, grid.Days)
	require.Len(t, grid.Timetable["Monday"][1], 2)
	assert.Equal(t, "CS101", grid.Timetable["Monday"][1][0].CourseCode)
	assert.Equal(t, &section, grid.Timetable["Monday"][1][0].Section)
	require.Len(t, grid.Timetable["Wednesday"][5], 1)
	assert.True(t, grid.Timetable["Wednesday"][5][0].Locked)
	assert.Nil(t, grid.Timetable["Tuesday"])
}

func TestTimetableServiceListUsesCache(t *testing.T) {
	cache := &timetableCacheStub{entries: map[string][]byte{}}
	reader := &placementReaderStub{details: []models.PlacementDetail{{Placement: models.Placement{ID: 7}, DayOfWeek: 2, SlotIndex: 3}}}
	svc := NewTimetableService(reader, cache, time.Minute, nil)
	filter := models.PlacementFilter{BranchID: 1, Semester: 3}

	first, hit, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, first, 1)
	assert.Equal(t, 1, reader.calls)
	assert.Contains(t, cache.entries, "timetable:list:b1:s3:y0:t0:g0")

	second, hit, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, reader.calls)
	assert.Equal(t, int64(7), second[0].ID)
}

func TestTimetableServiceListReturnsEmptySlice(t *testing.T) {
	svc := NewTimetableService(&placementReaderStub{}, nil, time.Minute, nil)
	details, _, err := svc.List(context.Background(), models.PlacementFilter{})
	require.NoError(t, err)
	assert.NotNil(t, details)
	assert.Empty(t, details)
}

func TestTimetableServiceListStorageError(t *testing.T) {
	svc := NewTimetableService(&placementReaderStub{err: sql.ErrConnDone}, nil, time.Minute, nil)
	_, _, err := svc.List(context.Background(), models.PlacementFilter{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrStorageFailure))
}

func TestTimetableServiceExportFormats(t *testing.T) {
	reader := &placementReaderStub{details: []models.PlacementDetail{
		{Placement: models.Placement{ID: 1}, CourseCode: "CS101", CourseName: "Programming", TeacherName: "Ada", RoomName: "R1", DayOfWeek: 1, SlotIndex: 1, StartTime: "09:00", EndTime: "10:00", BatchName: "CSE-1"},
	}}
	svc := NewTimetableService(reader, nil, time.Minute, nil)

	csvFile, err := svc.Export(context.Background(), models.PlacementFilter{}, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", csvFile.ContentType)
	assert.True(t, strings.HasSuffix(csvFile.Filename, ".csv"))
	assert.Contains(t, string(csvFile.Data), "CS101 Programming")
	assert.Contains(t, string(csvFile.Data), "Monday")

	pdfFile, err := svc.Export(context.Background(), models.PlacementFilter{}, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfFile.ContentType)
	assert.True(t, strings.HasPrefix(string(pdfFile.Data), "%PDF"))

	_, err = svc.Export(context.Background(), models.PlacementFilter{}, "xlsx")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestTimetableServiceSetLocked(t *testing.T) {
	cache := &timetableCacheStub{}
	reader := &placementReaderStub{placement: &models.Placement{ID: 4, IsLocked: true}}
	svc := NewTimetableService(reader, cache, time.Minute, nil)

	placement, err := svc.SetLocked(context.Background(), 4, true)
	require.NoError(t, err)
	assert.True(t, placement.IsLocked)
	assert.Equal(t, []bool{true}, reader.lockCalls)
	assert.Equal(t, []string{timetableCachePattern}, cache.invalidated)
}

func TestTimetableServiceSetLockedNotFound(t *testing.T) {
	svc := NewTimetableService(&placementReaderStub{lockErr: sql.ErrNoRows}, nil, time.Minute, nil)
	_, err := svc.SetLocked(context.Background(), 99, false)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = svc.SetLocked(context.Background(), 0, false)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

type placementReaderStub struct {
	details   []models.PlacementDetail
	placement *models.Placement
	err       error
	lockErr   error
	calls     int
	lockCalls []bool
}

func (s *placementReaderStub) ListDetails(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.details, nil
}

func (s *placementReaderStub) FindByID(ctx context.Context, id int64) (*models.Placement, error) {
	if s.placement == nil {
		return nil, sql.ErrNoRows
	}
	return s.placement, nil
}

func (s *placementReaderStub) SetLocked(ctx context.Context, id int64, locked bool) error {
	if s.lockErr != nil {
		return s.lockErr
	}
	s.lockCalls = append(s.lockCalls, locked)
	return nil
}

type timetableCacheStub struct {
	entries     map[string][]byte
	invalidated []string
}

func (c *timetableCacheStub) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *timetableCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.entries == nil {
		c.entries = map[string][]byte{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *timetableCacheStub) Invalidate(ctx context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	return nil
}

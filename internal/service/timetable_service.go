package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

const (
	timetableCachePrefix  = "timetable:"
	timetableCachePattern = timetableCachePrefix + "*"
)

// ExportFormat enumerates the supported timetable export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type placementReader interface {
	ListDetails(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Placement, error)
	SetLocked(ctx context.Context, id int64, locked bool) error
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

// ExportedFile is a rendered timetable ready to stream.
type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TimetableService serves reads of the placed grid and administrative pinning.
type TimetableService struct {
	placements placementReader
	cache      timetableCache
	renderers  map[ExportFormat]datasetRenderer
	logger     *zap.Logger
	cacheTTL   time.Duration
}

// NewTimetableService constructs the read service. A nil cache disables caching.
func NewTimetableService(placements placementReader, cache timetableCache, cacheTTL time.Duration, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		placements: placements,
		cache:      cache,
		logger:     logger,
		cacheTTL:   cacheTTL,
		renderers: map[ExportFormat]datasetRenderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
	}
}

// List returns flattened placements matching the filter ordered by day then
// slot, and whether they were served from cache.
func (s *TimetableService) List(ctx context.Context, filter models.PlacementFilter) ([]models.PlacementDetail, bool, error) {
	key := timetableCacheKey("list", filter)
	var cached []models.PlacementDetail
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	details, err := s.placements.ListDetails(ctx, filter)
	if err != nil {
		return nil, false, storageFailure(err, "failed to load timetable")
	}
	if details == nil {
		details = []models.PlacementDetail{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, details, s.cacheTTL); err != nil {
			s.logger.Debug("timetable cache set skipped", zap.String("key", key), zap.Error(err))
		}
	}
	return details, false, nil
}

// Grid returns the filtered placements grouped by day name and slot index.
func (s *TimetableService) Grid(ctx context.Context, filter models.PlacementFilter) (*models.TimetableGrid, bool, error) {
	details, hit, err := s.List(ctx, filter)
	if err != nil {
		return nil, false, err
	}
	return BuildTimetableGrid(details), hit, nil
}

// BuildTimetableGrid groups placements by day name then slot index.
func BuildTimetableGrid(details []models.PlacementDetail) *models.TimetableGrid {
	grid := &models.TimetableGrid{
		Days:      models.Weekdays(),
		Timetable: make(map[string]map[int][]models.TimetableEntry),
		Total:     len(details),
	}
	for _, d := range details {
		day := models.DayName(d.DayOfWeek)
		if grid.Timetable[day] == nil {
			grid.Timetable[day] = make(map[int][]models.TimetableEntry)
		}
		grid.Timetable[day][d.SlotIndex] = append(grid.Timetable[day][d.SlotIndex], models.TimetableEntry{
			ScheduledClassID: d.ID,
			CourseCode:       d.CourseCode,
			CourseName:       d.CourseName,
			CourseType:       string(d.CourseType),
			TeacherName:      d.TeacherName,
			RoomName:         d.RoomName,
			BatchName:        d.BatchName,
			Section:          d.Section,
			StartTime:        d.StartTime,
			EndTime:          d.EndTime,
			Locked:           d.IsLocked,
		})
	}
	return grid
}

// Export renders the filtered timetable in the requested format.
func (s *TimetableService) Export(ctx context.Context, filter models.PlacementFilter, format ExportFormat) (*ExportedFile, error) {
	format = ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	details, _, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := renderer.Render(timetableDataset(details))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable export")
	}
	return &ExportedFile{
		Filename:    fmt.Sprintf("timetable-%s.%s", time.Now().UTC().Format("20060102-150405"), format),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// SetLocked pins or unpins a placement so regeneration keeps or clears it.
func (s *TimetableService) SetLocked(ctx context.Context, id int64, locked bool) (*models.Placement, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scheduled class id is required")
	}
	if err := s.placements.SetLocked(ctx, id, locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scheduled class not found")
		}
		return nil, storageFailure(err, "failed to update scheduled class lock")
	}
	placement, err := s.placements.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scheduled class not found")
		}
		return nil, storageFailure(err, "failed to load scheduled class")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, timetableCachePattern); err != nil {
			s.logger.Warn("timetable cache invalidation failed", zap.Int64("scheduled_class_id", id), zap.Error(err))
		}
	}
	s.logger.Info("scheduled class lock updated", zap.Int64("scheduled_class_id", id), zap.Bool("locked", locked))
	return placement, nil
}

func timetableCacheKey(view string, f models.PlacementFilter) string {
	return fmt.Sprintf("%s%s:b%d:s%d:y%d:t%d:g%d", timetableCachePrefix, view, f.BranchID, f.Semester, f.Year, f.TeacherID, f.BatchID)
}

func timetableDataset(details []models.PlacementDetail) export.Dataset {
	headers := []string{"Day", "Slot", "Time", "Course", "Type", "Teacher", "Room", "Batch", "Branch", "Locked"}
	rows := make([]map[string]string, 0, len(details))
	for _, d := range details {
		batch := d.BatchName
		if d.Section != nil && *d.Section != "" {
			batch += " " + *d.Section
		}
		rows = append(rows, map[string]string{
			"Day":     models.DayName(d.DayOfWeek),
			"Slot":    strconv.Itoa(d.SlotIndex),
			"Time":    d.StartTime + "-" + d.EndTime,
			"Course":  strings.TrimSpace(d.CourseCode + " " + d.CourseName),
			"Type":    string(d.CourseType),
			"Teacher": d.TeacherName,
			"Room":    d.RoomName,
			"Batch":   batch,
			"Branch":  d.BranchName,
			"Locked":  strconv.FormatBool(d.IsLocked),
		})
	}
	return export.Dataset{Title: "Weekly Timetable", Headers: headers, Rows: rows}
}

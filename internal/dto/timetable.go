package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// LockPlacementRequest pins or unpins a scheduled class.
type LockPlacementRequest struct {
	Locked *bool `json:"locked" validate:"required"`
}

// GenerateTimetableResponse reports the outcome of a generation run.
type GenerateTimetableResponse struct {
	Message   string            `json:"message"`
	RunID     string            `json:"run_id"`
	Scheduled int               `json:"scheduled"`
	Placed    int               `json:"placed"`
	Cleared   int64             `json:"cleared"`
	Conflicts []models.Conflict `json:"conflicts"`
	TookMs    int64             `json:"took_ms"`
}

// NewGenerateTimetableResponse shapes a generation result for the API.
func NewGenerateTimetableResponse(result *models.GenerationResult) GenerateTimetableResponse {
	if result == nil {
		return GenerateTimetableResponse{Conflicts: []models.Conflict{}}
	}
	conflicts := result.Conflicts
	if conflicts == nil {
		conflicts = []models.Conflict{}
	}
	return GenerateTimetableResponse{
		Message:   "Timetable generated successfully",
		RunID:     result.RunID,
		Scheduled: result.Scheduled,
		Placed:    result.Placed,
		Cleared:   result.Cleared,
		Conflicts: conflicts,
		TookMs:    result.Duration.Milliseconds(),
	}
}

// DashboardResponse bundles catalog counters with runtime metrics.
type DashboardResponse struct {
	Counts  models.CatalogCounts `json:"counts"`
	Metrics interface{}          `json:"metrics,omitempty"`
}

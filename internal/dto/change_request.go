package dto

import "github.com/noah-isme/sma-timetable-api/internal/models"

// FileChangeRequest is the payload a teacher submits to contest a scheduled class.
type FileChangeRequest struct {
	ScheduledClassID int64  `json:"scheduled_class_id" validate:"required,gt=0"`
	Reason           string `json:"reason" validate:"required,max=2000"`
}

// ResolveChangeRequest captures the administrator decision and optional notes.
type ResolveChangeRequest struct {
	Status     models.ChangeRequestStatus `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes string                     `json:"admin_notes" validate:"max=2000"`
}

// ChangeRequestQuery mirrors supported listing filters.
type ChangeRequestQuery struct {
	Status models.ChangeRequestStatus `form:"status"`
	Limit  int                        `form:"limit"`
	Offset int                        `form:"offset"`
}

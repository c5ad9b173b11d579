package models

import (
	"fmt"
	"time"
)

// ConflictKind classifies why an obligation could not be fully placed.
type ConflictKind string

const (
	ConflictNoSuitableRoom ConflictKind = "NO_SUITABLE_ROOM"
	ConflictPartial        ConflictKind = "PARTIAL"
)

// Conflict reports an obligation left wholly or partially unplaced by a run.
type Conflict struct {
	AssignmentID int64        `json:"assignment"`
	Kind         ConflictKind `json:"kind"`
	Reason       string       `json:"reason"`
	CourseID     int64        `json:"course_id,omitempty"`
	BatchID      int64        `json:"batch_id,omitempty"`
	TeacherID    int64        `json:"teacher_id,omitempty"`
	Scheduled    int          `json:"scheduled"`
	Required     int          `json:"required"`
}

// NoSuitableRoomConflict builds the conflict for an obligation no room can host.
func NoSuitableRoomConflict(o TeachingObligation, required int) Conflict {
	return Conflict{
		AssignmentID: o.AssignmentID,
		Kind:         ConflictNoSuitableRoom,
		Reason:       "no suitable room",
		CourseID:     o.CourseID,
		BatchID:      o.BatchID,
		TeacherID:    o.TeacherID,
		Required:     required,
	}
}

// PartialConflict builds the conflict for an obligation placed short of its hours.
func PartialConflict(o TeachingObligation, scheduled, required int) Conflict {
	return Conflict{
		AssignmentID: o.AssignmentID,
		Kind:         ConflictPartial,
		Reason:       fmt.Sprintf("partial: scheduled %d/%d", scheduled, required),
		CourseID:     o.CourseID,
		BatchID:      o.BatchID,
		TeacherID:    o.TeacherID,
		Scheduled:    scheduled,
		Required:     required,
	}
}

// GenerationResult summarises one allocation run.
type GenerationResult struct {
	RunID      string        `json:"run_id"`
	Scheduled  int           `json:"scheduled"`
	Placed     int           `json:"placed"`
	Cleared    int64         `json:"cleared"`
	Conflicts  []Conflict    `json:"conflicts"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"-"`
}

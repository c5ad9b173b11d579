package models

import "time"

// ChangeRequestStatus captures workflow states for change requests.
type ChangeRequestStatus string

const (
	ChangeRequestPending  ChangeRequestStatus = "pending"
	ChangeRequestApproved ChangeRequestStatus = "approved"
	ChangeRequestRejected ChangeRequestStatus = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s ChangeRequestStatus) Terminal() bool {
	return s == ChangeRequestApproved || s == ChangeRequestRejected
}

// ChangeRequest is a teacher's request to move one of their scheduled classes.
// The course, batch, room and slot of the class are copied at filing time;
// ScheduledClassID becomes nil once regeneration removes the class.
type ChangeRequest struct {
	ID               int64               `db:"id" json:"id"`
	ScheduledClassID *int64              `db:"scheduled_class_id" json:"scheduled_class_id"`
	CourseID         int64               `db:"course_id" json:"course_id"`
	BatchID          int64               `db:"batch_id" json:"batch_id"`
	RoomID           int64               `db:"room_id" json:"room_id"`
	TimeSlotID       int64               `db:"time_slot_id" json:"time_slot_id"`
	TeacherID        int64               `db:"teacher_id" json:"teacher_id"`
	Reason           string              `db:"reason" json:"reason"`
	Status           ChangeRequestStatus `db:"status" json:"status"`
	AdminNotes       *string             `db:"admin_notes" json:"admin_notes,omitempty"`
	RequestedAt      time.Time           `db:"requested_at" json:"requested_at"`
	ProcessedAt      *time.Time          `db:"processed_at" json:"processed_at,omitempty"`
}

// ChangeRequestDetail joins a request with the display fields of its target class.
type ChangeRequestDetail struct {
	ChangeRequest
	TeacherName string  `db:"teacher_name" json:"teacher_name"`
	CourseName  string  `db:"course_name" json:"course_name"`
	CourseCode  string  `db:"course_code" json:"course_code"`
	BatchName   string  `db:"batch_name" json:"batch_name"`
	Section     *string `db:"section" json:"section,omitempty"`
	DayOfWeek   int     `db:"day_of_week" json:"day_of_week"`
	SlotIndex   int     `db:"slot_index" json:"slot_index"`
	StartTime   string  `db:"start_time" json:"start_time"`
	EndTime     string  `db:"end_time" json:"end_time"`
	RoomName    string  `db:"room_name" json:"room_name"`
}

// ChangeRequestFilter constrains listing queries.
type ChangeRequestFilter struct {
	TeacherID int64
	Status    ChangeRequestStatus
	Limit     int
	Offset    int
}

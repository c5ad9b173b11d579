package models

import "time"

// TeachingObligation is one course taught by one teacher to one batch, joined
// with the facts the allocator needs. It is read once per generation run.
type TeachingObligation struct {
	AssignmentID     int64      `db:"id" json:"assignment_id"`
	CourseID         int64      `db:"course_id" json:"course_id"`
	BatchID          int64      `db:"batch_id" json:"batch_id"`
	TeacherID        int64      `db:"teacher_id" json:"teacher_id"`
	RoomTypeRequired RoomType   `db:"room_type_required" json:"room_type_required"`
	HoursPerWeek     int        `db:"hours_per_week" json:"hours_per_week"`
	CourseType       CourseType `db:"course_type" json:"course_type"`
	BatchSize        int        `db:"batch_size" json:"batch_size"`
}

// Placement is a committed (course, batch, teacher, room, slot) row of the grid.
type Placement struct {
	ID         int64     `db:"id" json:"id"`
	CourseID   int64     `db:"course_id" json:"course_id"`
	BatchID    int64     `db:"batch_id" json:"batch_id"`
	TeacherID  int64     `db:"teacher_id" json:"teacher_id"`
	RoomID     int64     `db:"room_id" json:"room_id"`
	TimeSlotID int64     `db:"time_slot_id" json:"time_slot_id"`
	IsLocked   bool      `db:"is_locked" json:"is_locked"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PlacementDetail is a placement flattened with catalog display fields.
type PlacementDetail struct {
	Placement
	CourseName  string     `db:"course_name" json:"course_name"`
	CourseCode  string     `db:"course_code" json:"course_code"`
	CourseType  CourseType `db:"course_type" json:"course_type"`
	TeacherName string     `db:"teacher_name" json:"teacher_name"`
	RoomName    string     `db:"room_name" json:"room_name"`
	RoomType    RoomType   `db:"room_type" json:"room_type"`
	DayOfWeek   int        `db:"day_of_week" json:"day_of_week"`
	SlotIndex   int        `db:"slot_index" json:"slot_index"`
	StartTime   string     `db:"start_time" json:"start_time"`
	EndTime     string     `db:"end_time" json:"end_time"`
	BatchName   string     `db:"batch_name" json:"batch_name"`
	Section     *string    `db:"section" json:"section,omitempty"`
	Semester    int        `db:"semester" json:"semester"`
	Year        int        `db:"year" json:"year"`
	BranchID    int64      `db:"branch_id" json:"branch_id"`
	BranchName  string     `db:"branch_name" json:"branch_name"`
}

// PlacementFilter narrows timetable reads. Zero values mean "any".
type PlacementFilter struct {
	BranchID  int64 `form:"branch"`
	Semester  int   `form:"semester"`
	Year      int   `form:"year"`
	TeacherID int64 `form:"teacher"`
	BatchID   int64 `form:"batch"`
}

// TimetableEntry is one cell of the grid view.
type TimetableEntry struct {
	ScheduledClassID int64   `json:"scheduled_class_id"`
	CourseCode       string  `json:"course_code"`
	CourseName       string  `json:"course_name"`
	CourseType       string  `json:"course_type"`
	TeacherName      string  `json:"teacher_name"`
	RoomName         string  `json:"room_name"`
	BatchName        string  `json:"batch_name"`
	Section          *string `json:"section,omitempty"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time"`
	Locked           bool    `json:"locked"`
}

// TimetableGrid groups entries by day name and slot index.
type TimetableGrid struct {
	Days      []string                              `json:"days"`
	Timetable map[string]map[int][]TimetableEntry `json:"timetable"`
	Total     int                                   `json:"total"`
}

package models

import "fmt"

// RoomType classifies rooms and the room kind a course requires.
type RoomType string

const (
	RoomTypeClassroom RoomType = "classroom"
	RoomTypeLab       RoomType = "lab"
)

// CourseType distinguishes lecture courses from practical ones.
type CourseType string

const (
	CourseTypeTheory CourseType = "theory"
	CourseTypeLab    CourseType = "lab"
)

// Branch is an academic department owning batches.
type Branch struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}

// Teacher is a staff member who can be assigned to teach courses.
type Teacher struct {
	ID         int64   `db:"id" json:"id"`
	UserID     *string `db:"user_id" json:"user_id,omitempty"`
	Name       string  `db:"name" json:"name"`
	Email      *string `db:"email" json:"email,omitempty"`
	Department *string `db:"department" json:"department,omitempty"`
}

// Course is a subject with a weekly teaching load.
type Course struct {
	ID           int64      `db:"id" json:"id"`
	Code         string     `db:"code" json:"code"`
	Name         string     `db:"name" json:"name"`
	Type         CourseType `db:"type" json:"type"`
	HoursPerWeek int        `db:"hours_per_week" json:"hours_per_week"`
	BranchID     *int64     `db:"branch_id" json:"branch_id,omitempty"`
	Semester     *int       `db:"semester" json:"semester,omitempty"`
}

// Batch is a cohort of students taught together.
type Batch struct {
	ID       int64   `db:"id" json:"id"`
	BranchID int64   `db:"branch_id" json:"branch_id"`
	Name     string  `db:"name" json:"name"`
	Section  *string `db:"section" json:"section,omitempty"`
	Semester int     `db:"semester" json:"semester"`
	Year     int     `db:"year" json:"year"`
	Size     int     `db:"size" json:"size"`
}

// Room is a physical teaching space.
type Room struct {
	ID       int64    `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Type     RoomType `db:"type" json:"type"`
	Capacity int      `db:"capacity" json:"capacity"`
}

// Fits reports whether the room can host an obligation of the given kind and group size.
func (r Room) Fits(required RoomType, groupSize int) bool {
	return r.Type == required && r.Capacity >= groupSize
}

// TimeSlot is one cell of the weekly grid.
type TimeSlot struct {
	ID        int64  `db:"id" json:"id"`
	DayOfWeek int    `db:"day_of_week" json:"day_of_week"`
	SlotIndex int    `db:"slot_index" json:"slot_index"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName renders a 1-based weekday number (Monday = 1).
func DayName(day int) string {
	if day < 1 || day >= len(dayNames) {
		return fmt.Sprintf("Day %d", day)
	}
	return dayNames[day]
}

// Weekdays lists the teaching days of the grid in order.
func Weekdays() []string {
	return append([]string(nil), dayNames[1:]...)
}

// CatalogCounts summarises the reference data for the admin dashboard.
type CatalogCounts struct {
	Teachers         int `db:"teachers" json:"teachers"`
	Courses          int `db:"courses" json:"courses"`
	Rooms            int `db:"rooms" json:"rooms"`
	Batches          int `db:"batches" json:"batches"`
	ScheduledClasses int `db:"scheduled_classes" json:"scheduled_classes"`
	LockedClasses    int `db:"locked_classes" json:"locked_classes"`
	PendingRequests  int `db:"pending_requests" json:"pending_requests"`
}

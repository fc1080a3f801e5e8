package models

import (
	"time"

	"gorm.io/datatypes"
)

// TeacherAttendance records one clock-in for a teacher on a shift. At most one
// row may exist per (teacher, date, shift); the composite unique index is the
// authoritative guard under concurrent requests.
type TeacherAttendance struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TeacherID  uint           `gorm:"not null;uniqueIndex:uix_teacher_date_shift" json:"teacher_id"`
	Date       datatypes.Date `gorm:"not null;uniqueIndex:uix_teacher_date_shift" json:"date"`
	ShiftID    uint           `gorm:"not null;uniqueIndex:uix_teacher_date_shift" json:"shift_id"`
	WallTime   string         `gorm:"size:5;not null" json:"wall_time"`
	RecordedBy uint           `gorm:"not null" json:"recorded_by"`
	SheetRow   *int64         `json:"sheet_row"`
	CreatedAt  time.Time      `json:"created_at"`
	Teacher    Teacher        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Shift      Shift          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// StudentAttendance records one presence mark for a student on a day.
// At most one row may exist per (student, date).
type StudentAttendance struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	StudentID  uint           `gorm:"not null;uniqueIndex:uix_student_date" json:"student_id"`
	Date       datatypes.Date `gorm:"not null;uniqueIndex:uix_student_date" json:"date"`
	WallTime   string         `gorm:"size:5;not null" json:"wall_time"`
	RecordedBy uint           `gorm:"not null" json:"recorded_by"`
	SheetRow   *int64         `json:"sheet_row"`
	CreatedAt  time.Time      `json:"created_at"`
	Student    Student        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// DateOf truncates an instant to its calendar date. Dates are stored without
// timezone so the same helper must be used on every write and query path.
func DateOf(t time.Time) datatypes.Date {
	year, month, day := t.Date()
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FormatDate renders a stored date as "2006-01-02".
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format("2006-01-02")
}

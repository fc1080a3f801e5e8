package dto

// TeacherMonthlyStats aggregates one teacher's shifts and hours for a month.
type TeacherMonthlyStats struct {
	TeacherID   uint             `json:"teacher_id"`
	TeacherName string           `json:"teacher_name"`
	ShiftCounts map[string]int64 `json:"shift_counts"`
	TotalShifts int64            `json:"total_shifts"`
	TotalHours  float64          `json:"total_hours"`
}

// TeacherMonthlyReport adds the per-day calendar detail to the stats.
type TeacherMonthlyReport struct {
	TeacherMonthlyStats
	Year  int                 `json:"year"`
	Month int                 `json:"month"`
	Days  map[string][]string `json:"days"`
}

// StudentMonthlyAttendance reports a student's attendance rate for a month.
// EligibleDays excludes the weekly rest day; Rate is 0 when EligibleDays is 0.
type StudentMonthlyAttendance struct {
	StudentID    uint              `json:"student_id"`
	StudentName  string            `json:"student_name"`
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	PresentDays  int64             `json:"present_days"`
	EligibleDays int               `json:"eligible_days"`
	Rate         float64           `json:"rate"`
	Days         map[string]string `json:"days"`
}

// DayPresence counts students present on one calendar day.
type DayPresence struct {
	Count      int64 `json:"count"`
	Percentage int   `json:"percentage"`
}

// MonthlyOverview is the admin report across all active teachers and students.
type MonthlyOverview struct {
	Year            int                    `json:"year"`
	Month           int                    `json:"month"`
	TeacherStats    []TeacherMonthlyStats  `json:"teacher_stats"`
	TotalStudents   int64                  `json:"total_students"`
	StudentPresence map[string]DayPresence `json:"student_presence"`
}

// DashboardResponse is the admin "now" view.
type DashboardResponse struct {
	Date            string            `json:"date"`
	RestDay         bool              `json:"rest_day"`
	PresentStudents int64             `json:"present_students"`
	TotalStudents   int64             `json:"total_students"`
	OpenShifts      []ShiftResponse   `json:"open_shifts"`
	WorkingTeachers []TeacherResponse `json:"working_teachers"`
}

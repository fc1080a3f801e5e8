package dto

import "github.com/noah-isme/lhp-attendance-api/internal/models"

// ClockInRequest selects the shift a teacher is clocking in for. Overlapping
// one-on-one variants are all open at once, so the caller picks one explicitly.
type ClockInRequest struct {
	ShiftCode string `json:"shift_code" validate:"required"`
}

// TeacherAttendanceResponse is the serialized representation of a teacher clock-in.
type TeacherAttendanceResponse struct {
	ID            uint   `json:"id"`
	TeacherID     uint   `json:"teacher_id"`
	TeacherName   string `json:"teacher_name,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	ShiftCode     string `json:"shift_code"`
	ShiftName     string `json:"shift_name,omitempty"`
	SheetRow      *int64 `json:"sheet_row,omitempty"`
	MirrorWarning string `json:"mirror_warning,omitempty"`
}

// NewTeacherAttendanceResponse converts a model into a DTO. The Teacher and
// Shift associations must be loaded for the name fields to be populated.
func NewTeacherAttendanceResponse(model models.TeacherAttendance) TeacherAttendanceResponse {
	return TeacherAttendanceResponse{
		ID:          model.ID,
		TeacherID:   model.TeacherID,
		TeacherName: model.Teacher.Name,
		Date:        models.FormatDate(model.Date),
		Time:        model.WallTime,
		ShiftCode:   model.Shift.Code,
		ShiftName:   model.Shift.Name,
		SheetRow:    model.SheetRow,
	}
}

// StudentAttendanceResponse is the serialized representation of a presence mark.
type StudentAttendanceResponse struct {
	ID            uint   `json:"id"`
	StudentID     uint   `json:"student_id"`
	StudentName   string `json:"student_name,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	SheetRow      *int64 `json:"sheet_row,omitempty"`
	MirrorWarning string `json:"mirror_warning,omitempty"`
}

// NewStudentAttendanceResponse converts a model into a DTO.
func NewStudentAttendanceResponse(model models.StudentAttendance) StudentAttendanceResponse {
	return StudentAttendanceResponse{
		ID:          model.ID,
		StudentID:   model.StudentID,
		StudentName: model.Student.Name,
		Date:        models.FormatDate(model.Date),
		Time:        model.WallTime,
		SheetRow:    model.SheetRow,
	}
}

// ShiftStatus reports one shift's state for the teacher home view.
type ShiftStatus struct {
	Shift    ShiftResponse `json:"shift"`
	Open     bool          `json:"open"`
	Attended bool          `json:"attended"`
}

// TeacherTodayResponse summarizes a teacher's clock-in options for today.
type TeacherTodayResponse struct {
	Date    string        `json:"date"`
	RestDay bool          `json:"rest_day"`
	Shifts  []ShiftStatus `json:"shifts"`
}

// TodayRecordsResponse lists all attendance recorded today, for the admin view.
type TodayRecordsResponse struct {
	Date     string                      `json:"date"`
	Teachers []TeacherAttendanceResponse `json:"teachers"`
	Students []StudentAttendanceResponse `json:"students"`
}

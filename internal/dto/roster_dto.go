package dto

import "github.com/noah-isme/lhp-attendance-api/internal/models"

// TeacherCreateRequest describes the payload for registering a teacher.
type TeacherCreateRequest struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

// TeacherUpdateRequest describes the payload for updating a teacher.
type TeacherUpdateRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Active *bool   `json:"active"`
}

// TeacherResponse is the serialized representation of a teacher.
type TeacherResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
	Linked bool   `json:"linked"`
}

// NewTeacherResponse converts a model into a DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:     model.ID,
		Name:   model.Name,
		Email:  model.Email,
		Active: model.Active,
		Linked: model.HasAccount(),
	}
}

// NewTeacherResponseSlice converts a slice of models into DTOs.
func NewTeacherResponseSlice(teachers []models.Teacher) []TeacherResponse {
	responses := make([]TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		responses = append(responses, NewTeacherResponse(teacher))
	}

	return responses
}

// StudentCreateRequest describes the payload for registering a student.
type StudentCreateRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// StudentUpdateRequest describes the payload for updating a student.
type StudentUpdateRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1"`
	Active *bool   `json:"active"`
}

// StudentResponse is the serialized representation of a student.
type StudentResponse struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:     model.ID,
		Name:   model.Name,
		Active: model.Active,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}

// ShiftResponse is the serialized representation of a shift window.
type ShiftResponse struct {
	ID        uint    `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Hours     float64 `json:"hours"`
	Category  string  `json:"category"`
	Active    bool    `json:"active"`
}

// NewShiftResponse converts a model into a DTO.
func NewShiftResponse(model models.Shift) ShiftResponse {
	return ShiftResponse{
		ID:        model.ID,
		Code:      model.Code,
		Name:      model.Name,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		Hours:     model.Hours,
		Category:  string(model.Category),
		Active:    model.Active,
	}
}

// NewShiftResponseSlice converts a slice of models into DTOs.
func NewShiftResponseSlice(shifts []models.Shift) []ShiftResponse {
	responses := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		responses = append(responses, NewShiftResponse(shift))
	}

	return responses
}

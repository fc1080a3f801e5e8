package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

// AttendanceHandler exposes the clock-in and presence endpoints.
type AttendanceHandler struct {
	attendance service.AttendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(attendance service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// ClockIn records the authenticated teacher's attendance for a shift.
func (h *AttendanceHandler) ClockIn(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ClockInRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if payload.ShiftCode == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "shift_code is required")
	}

	response, err := h.attendance.ClockIn(c.Context(), userID, payload.ShiftCode)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithWarning(c, "attendance recorded", response, response.MirrorWarning)
}

// MarkStudent records a student as present today.
func (h *AttendanceHandler) MarkStudent(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	response, err := h.attendance.MarkStudentPresent(c.Context(), userID, studentID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithWarning(c, "attendance recorded", response, response.MirrorWarning)
}

// DeleteTeacherRecord removes a teacher attendance record.
func (h *AttendanceHandler) DeleteTeacherRecord(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	warning, err := h.attendance.DeleteTeacherAttendance(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithWarning(c, "attendance deleted", nil, warning)
}

// DeleteStudentRecord removes a student attendance record.
func (h *AttendanceHandler) DeleteStudentRecord(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	warning, err := h.attendance.DeleteStudentAttendance(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccessWithWarning(c, "attendance deleted", nil, warning)
}

// OpenShifts lists the shifts whose windows contain the current time.
func (h *AttendanceHandler) OpenShifts(c *fiber.Ctx) error {
	shifts, err := h.attendance.CurrentOpenShifts(c.Context())
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "open shifts", shifts)
}

// Today summarizes the authenticated teacher's clock-in options for today.
func (h *AttendanceHandler) Today(c *fiber.Ctx) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	response, err := h.attendance.TeacherToday(c.Context(), userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "today", response)
}

// TodayRecords lists all attendance recorded today.
func (h *AttendanceHandler) TodayRecords(c *fiber.Ctx) error {
	response, err := h.attendance.TodayRecords(c.Context())
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "today records", response)
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

// TeacherHandler exposes roster management for teachers.
type TeacherHandler struct {
	roster service.RosterService
}

// NewTeacherHandler constructs the handler.
func NewTeacherHandler(roster service.RosterService) *TeacherHandler {
	return &TeacherHandler{roster: roster}
}

// List returns teachers, optionally filtered to active ones via ?active=true.
func (h *TeacherHandler) List(c *fiber.Ctx) error {
	teachers, err := h.roster.ListTeachers(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teachers", teachers)
}

// Create registers a new teacher.
func (h *TeacherHandler) Create(c *fiber.Ctx) error {
	var payload dto.TeacherCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.roster.CreateTeacher(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teacher created", teacher)
}

// Update modifies a teacher's roster entry.
func (h *TeacherHandler) Update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.TeacherUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	teacher, err := h.roster.UpdateTeacher(c.Context(), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teacher updated", teacher)
}

// Delete removes a teacher, or deactivates them when attendance history exists.
func (h *TeacherHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deactivated, err := h.roster.DeleteTeacher(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	message := "teacher deleted"
	if deactivated {
		message = "teacher deactivated because attendance history exists"
	}

	return utils.SendSuccess(c, message, fiber.Map{"deactivated": deactivated})
}

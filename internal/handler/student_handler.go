package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

// StudentHandler exposes roster management for students.
type StudentHandler struct {
	roster service.RosterService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(roster service.RosterService) *StudentHandler {
	return &StudentHandler{roster: roster}
}

// List returns students, optionally filtered to active ones via ?active=true.
func (h *StudentHandler) List(c *fiber.Ctx) error {
	students, err := h.roster.ListStudents(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "students", students)
}

// Create registers a new student.
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.roster.CreateStudent(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student created", student)
}

// Update modifies a student's roster entry.
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	student, err := h.roster.UpdateStudent(c.Context(), id, payload)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student updated", student)
}

// Delete removes a student, or deactivates them when attendance history exists.
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deactivated, err := h.roster.DeleteStudent(c.Context(), id)
	if err != nil {
		return sendServiceError(c, err)
	}

	message := "student deleted"
	if deactivated {
		message = "student deactivated because attendance history exists"
	}

	return utils.SendSuccess(c, message, fiber.Map{"deactivated": deactivated})
}

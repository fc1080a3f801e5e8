package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

// ShiftHandler exposes the shift catalog.
type ShiftHandler struct {
	roster service.RosterService
}

// NewShiftHandler constructs the handler.
func NewShiftHandler(roster service.RosterService) *ShiftHandler {
	return &ShiftHandler{roster: roster}
}

// List returns the configured shift windows.
func (h *ShiftHandler) List(c *fiber.Ctx) error {
	shifts, err := h.roster.ListShifts(c.Context())
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "shifts", shifts)
}

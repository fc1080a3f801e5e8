package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/dto"
	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates an admin (email + password) or a teacher (email only).
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.auth.Login(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "login successful", response)
}

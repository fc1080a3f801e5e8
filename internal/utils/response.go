package utils

import "github.com/gofiber/fiber/v2"

// APIResponse describes the common structure for API responses. Warning is set
// when the operation succeeded but a best-effort side channel (the external
// ledger mirror) did not.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Warning string      `json:"warning,omitempty"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithWarning(c, message, data, "")
}

// SendSuccessWithWarning sends a success payload carrying a non-fatal warning.
func SendSuccessWithWarning(c *fiber.Ctx, message string, data interface{}, warning string) error {
	if message == "" {
		message = "success"
	}

	return c.Status(fiber.StatusOK).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
		Warning: warning,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
	})
}

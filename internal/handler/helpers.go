package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lhp-attendance-api/internal/service"
	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, errors.New("invalid " + name)
	}

	return uint(value), nil
}

// parseMonthQuery reads ?year= and ?month= query parameters, defaulting to the
// given time when either is absent.
func parseMonthQuery(c *fiber.Ctx, fallback time.Time) (int, time.Month, error) {
	year := c.QueryInt("year", fallback.Year())
	month := c.QueryInt("month", int(fallback.Month()))

	if year < 2000 || year > 2200 {
		return 0, 0, errors.New("invalid year")
	}
	if month < 1 || month > 12 {
		return 0, 0, errors.New("invalid month")
	}

	return year, time.Month(month), nil
}

func userIDFromContext(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok && id > 0
}

// sendServiceError translates service sentinel errors into HTTP responses.
func sendServiceError(c *fiber.Ctx, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return utils.SendError(c, fiber.StatusBadRequest, "validation failed: "+validationErrs.Error())
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRestDay),
		errors.Is(err, service.ErrOutsideWindow):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrDuplicateAttendance),
		errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrShiftNotFound),
		errors.Is(err, service.ErrTeacherNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrAttendanceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotLinkedTeacher):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

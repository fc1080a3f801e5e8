package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/noah-isme/lhp-attendance-api/internal/utils"
)

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewHealthHandler constructs the handler. The cache client may be nil.
func NewHealthHandler(db *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Check verifies database and cache connectivity.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.Map{"service": "ok"}
	healthy := true

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			status["database"] = "unreachable"
			healthy = false
		} else {
			status["database"] = "ok"
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx).Err(); err != nil {
			status["cache"] = "unreachable"
		} else {
			status["cache"] = "ok"
		}
	}

	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
			Success: false,
			Data:    status,
			Message: "degraded",
		})
	}

	return utils.SendSuccess(c, "healthy", status)
}

package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/themessagevault/vault-backend/internal/dto"
)

// PingFunc reports the health of the database and the cache.
type PingFunc func(ctx context.Context) (db, cache error)

type HealthHandler struct {
	ping PingFunc
}

func NewHealthHandler(ping PingFunc) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbErr, cacheErr := h.ping(ctx)
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		Redis:     "ok",
	}
	if dbErr != nil {
		resp.DB = "unhealthy: " + dbErr.Error()
		resp.Status = "degraded"
	}
	if cacheErr != nil {
		resp.Redis = "unhealthy: " + cacheErr.Error()
		resp.Status = "degraded"
	}

	if dbErr != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}

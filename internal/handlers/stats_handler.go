package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/themessagevault/vault-backend/internal/dto"
	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/services"
)

type StatsService interface {
	Snapshot(ctx context.Context) (*services.Stats, error)
}

type StatsHandler struct {
	stats     StatsService
	minLength int
	maxLength int
}

func NewStatsHandler(stats StatsService, minLength, maxLength int) *StatsHandler {
	return &StatsHandler{stats: stats, minLength: minLength, maxLength: maxLength}
}

func (h *StatsHandler) Get(c *fiber.Ctx) error {
	stats, err := h.stats.Snapshot(c.UserContext())
	if err != nil {
		return fail(c, err, "stats_snapshot")
	}
	return c.JSON(stats)
}

// Options returns the fixed choices and limits the client forms need.
func (h *StatsHandler) Options(c *fiber.Ctx) error {
	return c.JSON(dto.OptionsResponse{
		MessageTags:      models.MessageTags,
		Signoffs:         models.DefaultSignoffs,
		CandleCategories: models.CandleCategories,
		SupporterTiers:   models.SupporterTiers,
		MinLength:        h.minLength,
		MaxLength:        h.maxLength,
		MaxSignoffLength: services.MaxSignoffLength,
	})
}

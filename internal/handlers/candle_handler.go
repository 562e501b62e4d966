package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/themessagevault/vault-backend/internal/dto"
	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/session"
)

type CandleService interface {
	Light(ctx context.Context, sessionHash, situation, category string) (*models.Candle, error)
	Active(ctx context.Context) ([]models.Candle, error)
	SendLight(ctx context.Context, sessionHash string, id uuid.UUID) error
	SendMessage(ctx context.Context, sessionHash string, id uuid.UUID, message string) error
}

type CandleHandler struct {
	candles CandleService
}

func NewCandleHandler(candles CandleService) *CandleHandler {
	return &CandleHandler{candles: candles}
}

func (h *CandleHandler) List(c *fiber.Ctx) error {
	candles, err := h.candles.Active(c.UserContext())
	if err != nil {
		return fail(c, err, "list_candles")
	}
	return c.JSON(candles)
}

func (h *CandleHandler) Light(c *fiber.Ctx) error {
	var req dto.LightCandleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	candle, err := h.candles.Light(c.UserContext(), session.GetHash(c), req.Situation, req.Category)
	if err != nil {
		return fail(c, err, "light_candle")
	}
	return c.Status(fiber.StatusCreated).JSON(candle)
}

func (h *CandleHandler) SendLight(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid candle ID")
	}

	if err := h.candles.SendLight(c.UserContext(), session.GetHash(c), id); err != nil {
		return fail(c, err, "send_light")
	}
	return c.JSON(dto.MessageResponse{Message: "Your light has been sent"})
}

func (h *CandleHandler) SendMessage(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid candle ID")
	}

	var req dto.CandleMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.candles.SendMessage(c.UserContext(), session.GetHash(c), id, req.Message); err != nil {
		return fail(c, err, "send_candle_message")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Your message has been sent"})
}

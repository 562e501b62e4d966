package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/themessagevault/vault-backend/internal/dto"
	"github.com/themessagevault/vault-backend/internal/models"
)

type SupporterService interface {
	Add(ctx context.Context, name, tier, message string) (*models.Supporter, error)
	List(ctx context.Context) ([]models.Supporter, error)
}

type SupporterHandler struct {
	supporters SupporterService
}

func NewSupporterHandler(supporters SupporterService) *SupporterHandler {
	return &SupporterHandler{supporters: supporters}
}

func (h *SupporterHandler) List(c *fiber.Ctx) error {
	supporters, err := h.supporters.List(c.UserContext())
	if err != nil {
		return fail(c, err, "list_supporters")
	}
	return c.JSON(supporters)
}

func (h *SupporterHandler) Add(c *fiber.Ctx) error {
	var req dto.AddSupporterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	supporter, err := h.supporters.Add(c.UserContext(), req.Name, req.Tier, req.Message)
	if err != nil {
		return fail(c, err, "add_supporter")
	}
	return c.Status(fiber.StatusCreated).JSON(supporter)
}

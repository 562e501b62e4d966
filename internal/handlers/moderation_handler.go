package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/themessagevault/vault-backend/internal/dto"
	"github.com/themessagevault/vault-backend/internal/services"
)

type ModerationHandler struct {
	moderator services.Moderator
}

func NewModerationHandler(moderator services.Moderator) *ModerationHandler {
	return &ModerationHandler{moderator: moderator}
}

// Check runs text through moderation without storing anything, so the
// client can give feedback before submitting.
func (h *ModerationHandler) Check(c *fiber.Ctx) error {
	var req dto.ModerationCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(h.moderator.Moderate(c.UserContext(), req.Text))
}

package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/themessagevault/vault-backend/internal/dto"
	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/services"
	"github.com/themessagevault/vault-backend/internal/session"
)

type MessageService interface {
	Leave(ctx context.Context, sessionHash string, in services.LeaveMessageInput) (*models.Message, error)
	Take(ctx context.Context) (*models.Message, error)
	Heart(ctx context.Context, sessionHash string, id uuid.UUID) (int, error)
	Report(ctx context.Context, id uuid.UUID) error
	ListReported(ctx context.Context, limit, offset int) ([]models.Message, int64, error)
	Resolve(ctx context.Context, id uuid.UUID, action string) error
}

type MessageHandler struct {
	messages MessageService
}

func NewMessageHandler(messages MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Leave(c *fiber.Ctx) error {
	var req dto.LeaveMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	msg, err := h.messages.Leave(c.UserContext(), session.GetHash(c), services.LeaveMessageInput{
		Text:    req.Text,
		Signoff: req.Signoff,
		Tag:     req.Tag,
	})
	if err != nil {
		return fail(c, err, "leave_message")
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *MessageHandler) Random(c *fiber.Ctx) error {
	msg, err := h.messages.Take(c.UserContext())
	if err != nil {
		return fail(c, err, "take_message")
	}
	return c.JSON(msg)
}

func (h *MessageHandler) Heart(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid message ID")
	}

	hearts, err := h.messages.Heart(c.UserContext(), session.GetHash(c), id)
	if err != nil {
		return fail(c, err, "heart_message")
	}
	return c.JSON(dto.HeartResponse{Hearts: hearts})
}

func (h *MessageHandler) Report(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid message ID")
	}

	if err := h.messages.Report(c.UserContext(), id); err != nil {
		return fail(c, err, "report_message")
	}
	return c.JSON(dto.MessageResponse{Message: "Thank you. This message will be reviewed."})
}

func (h *MessageHandler) ListReported(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	msgs, total, err := h.messages.ListReported(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err, "list_reported")
	}

	return c.JSON(dto.ReportedMessagesResponse{
		Messages: msgs,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

func (h *MessageHandler) Resolve(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "Invalid message ID")
	}

	var req dto.ResolveMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.messages.Resolve(c.UserContext(), id, req.Action); err != nil {
		return fail(c, err, "resolve_message")
	}
	return c.JSON(dto.MessageResponse{Message: "Message updated successfully"})
}

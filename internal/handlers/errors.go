package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/themessagevault/vault-backend/internal/dto"
	"github.com/themessagevault/vault-backend/internal/services"
)

// fail maps a service error onto a response. Rejections return the full
// moderation result so the client can show the reason and scores.
func fail(c *fiber.Ctx, err error, action string) error {
	var rejected *services.RejectedError
	if errors.As(err, &rejected) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(rejected.Result)
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrCandleNotFound),
		errors.Is(err, services.ErrVaultEmpty):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyHearted),
		errors.Is(err, services.ErrAlreadySupported):
		status = fiber.StatusConflict
	}

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed",
			"action", action,
			"error", err.Error(),
			"request_id", c.Locals("requestid"),
		)
		message = "Something went wrong, please try again"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func paramID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

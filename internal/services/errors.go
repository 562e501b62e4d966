package services

import (
	"context"
	"errors"

	"github.com/themessagevault/vault-backend/internal/moderation"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrVaultEmpty       = errors.New("the vault is empty")
	ErrAlreadyHearted   = errors.New("message already hearted")
	ErrCandleNotFound   = errors.New("candle not found or no longer lit")
	ErrAlreadySupported = errors.New("candle already supported")
	ErrInvalidInput     = errors.New("invalid input")
)

// Moderator decides whether user text may be shown to strangers.
type Moderator interface {
	Moderate(ctx context.Context, text string) moderation.Result
}

// RejectedError is returned when moderation turns text away. The result is
// surfaced to the visitor so they can revise and resubmit.
type RejectedError struct {
	Result moderation.Result
}

func (e *RejectedError) Error() string {
	return "content rejected: " + e.Result.Reason
}

func invalid(msg string) error {
	return &inputError{msg: msg}
}

type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Unwrap() error { return ErrInvalidInput }

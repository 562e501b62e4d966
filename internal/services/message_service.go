package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/themessagevault/vault-backend/internal/metrics"
	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/moderation"
	"github.com/themessagevault/vault-backend/internal/store"
)

const (
	MaxSignoffLength = 50
	DefaultTag       = "Hope"

	// takePool is how many recent messages a random take draws from.
	takePool = 50
)

// MessageService leaves and takes messages from the vault.
type MessageService struct {
	messages  store.MessageStore
	counters  store.Counters
	moderator Moderator
	preFilter *moderation.PreFilter
	pick      func(n int) int
}

func NewMessageService(messages store.MessageStore, counters store.Counters, moderator Moderator, preFilter *moderation.PreFilter) *MessageService {
	return &MessageService{
		messages:  messages,
		counters:  counters,
		moderator: moderator,
		preFilter: preFilter,
		pick:      rand.IntN,
	}
}

type LeaveMessageInput struct {
	Text    string
	Signoff string
	Tag     string
}

// Leave moderates the text and stores it when approved. A rejection is
// returned as *RejectedError and nothing is written.
func (s *MessageService) Leave(ctx context.Context, sessionHash string, in LeaveMessageInput) (*models.Message, error) {
	tag := strings.TrimSpace(in.Tag)
	if tag == "" {
		tag = DefaultTag
	}
	if !slices.Contains(models.MessageTags, tag) {
		return nil, invalid(fmt.Sprintf("tag must be one of: %s", strings.Join(models.MessageTags, ", ")))
	}

	signoff := strings.TrimSpace(in.Signoff)
	if signoff == "" {
		signoff = models.DefaultSignoffs[s.pick(len(models.DefaultSignoffs))]
	}
	if utf8.RuneCountInString(signoff) > MaxSignoffLength {
		return nil, invalid(fmt.Sprintf("signoff must be at most %d characters", MaxSignoffLength))
	}
	if s.preFilter != nil {
		if flags := s.preFilter.Scan(signoff); len(flags) > 0 {
			return nil, invalid("signoff contains content that can't be shared")
		}
	}

	result := s.moderator.Moderate(ctx, in.Text)
	if !result.IsApproved {
		return nil, &RejectedError{Result: result}
	}

	msg := &models.Message{
		Text:        strings.TrimSpace(in.Text),
		Signoff:     signoff,
		Tag:         tag,
		Status:      models.MessageActive,
		SessionHash: sessionHash,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	metrics.MessagesLeftTotal.Inc()
	incrCounter(ctx, s.counters, store.CounterMessagesLeft)
	return msg, nil
}

// Take returns a random message from the most recent active ones.
func (s *MessageService) Take(ctx context.Context) (*models.Message, error) {
	msgs, err := s.messages.RecentActive(ctx, takePool)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	if len(msgs) == 0 {
		return nil, ErrVaultEmpty
	}

	msg := msgs[s.pick(len(msgs))]
	metrics.MessagesTakenTotal.Inc()
	incrCounter(ctx, s.counters, store.CounterMessagesTaken)
	return &msg, nil
}

// Heart adds one heart from this session and returns the new total.
func (s *MessageService) Heart(ctx context.Context, sessionHash string, id uuid.UUID) (int, error) {
	hearts, err := s.messages.AddHeart(ctx, id, sessionHash)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return 0, ErrMessageNotFound
	case errors.Is(err, store.ErrDuplicate):
		return 0, ErrAlreadyHearted
	case err != nil:
		return 0, err
	}
	incrCounter(ctx, s.counters, store.CounterHearts)
	return hearts, nil
}

func (s *MessageService) Report(ctx context.Context, id uuid.UUID) error {
	err := s.messages.Report(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMessageNotFound
	}
	return err
}

func (s *MessageService) ListReported(ctx context.Context, limit, offset int) ([]models.Message, int64, error) {
	return s.messages.ListByStatus(ctx, models.MessageReported, limit, offset)
}

// Resolve applies an admin decision to a reported message: "restore" puts it
// back in rotation and "remove" takes it out for good.
func (s *MessageService) Resolve(ctx context.Context, id uuid.UUID, action string) error {
	var status string
	switch action {
	case "restore":
		status = models.MessageActive
	case "remove":
		status = models.MessageRemoved
	default:
		return invalid("action must be restore or remove")
	}

	err := s.messages.SetStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return ErrMessageNotFound
	}
	if err == nil {
		slog.Info("reported message resolved", "message_id", id, "action", action)
	}
	return err
}

// incrCounter bumps a vault counter. Counters are best effort and never fail
// the request that triggered them.
func incrCounter(ctx context.Context, counters store.Counters, name string) {
	if counters == nil {
		return
	}
	if _, err := counters.Incr(ctx, name); err != nil {
		slog.Warn("failed to increment vault counter", "counter", name, "error", err)
	}
}

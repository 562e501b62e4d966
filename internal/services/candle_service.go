package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/themessagevault/vault-backend/internal/metrics"
	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/store"
)

const (
	DefaultCandleLifetime = 7 * 24 * time.Hour
	activeCandleLimit     = 50
)

// CandleService manages support candles: a visitor lights one for something
// they are going through and strangers send a light or a short message.
type CandleService struct {
	candles   store.CandleStore
	counters  store.Counters
	moderator Moderator
	lifetime  time.Duration
	now       func() time.Time
}

func NewCandleService(candles store.CandleStore, counters store.Counters, moderator Moderator, lifetime time.Duration) *CandleService {
	if lifetime <= 0 {
		lifetime = DefaultCandleLifetime
	}
	return &CandleService{
		candles:   candles,
		counters:  counters,
		moderator: moderator,
		lifetime:  lifetime,
		now:       time.Now,
	}
}

func (s *CandleService) Light(ctx context.Context, sessionHash, situation, category string) (*models.Candle, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if !slices.Contains(models.CandleCategories, category) {
		return nil, invalid(fmt.Sprintf("category must be one of: %s", strings.Join(models.CandleCategories, ", ")))
	}

	result := s.moderator.Moderate(ctx, situation)
	if !result.IsApproved {
		return nil, &RejectedError{Result: result}
	}

	now := s.now()
	candle := &models.Candle{
		Situation:   strings.TrimSpace(situation),
		Category:    category,
		SessionHash: sessionHash,
		Status:      models.CandleActive,
		ExpiresAt:   now.Add(s.lifetime),
	}
	if err := s.candles.Create(ctx, candle); err != nil {
		return nil, err
	}

	incrCounter(ctx, s.counters, store.CounterCandlesLit)
	return candle, nil
}

func (s *CandleService) Active(ctx context.Context) ([]models.Candle, error) {
	return s.candles.Active(ctx, s.now(), activeCandleLimit)
}

func (s *CandleService) SendLight(ctx context.Context, sessionHash string, id uuid.UUID) error {
	return s.support(ctx, &models.CandleSupport{
		CandleID:    id,
		SessionHash: sessionHash,
		SupportType: models.SupportLight,
	})
}

// SendMessage moderates the message before attaching it to the candle.
func (s *CandleService) SendMessage(ctx context.Context, sessionHash string, id uuid.UUID, message string) error {
	result := s.moderator.Moderate(ctx, message)
	if !result.IsApproved {
		return &RejectedError{Result: result}
	}
	return s.support(ctx, &models.CandleSupport{
		CandleID:    id,
		SessionHash: sessionHash,
		SupportType: models.SupportMessage,
		Message:     strings.TrimSpace(message),
	})
}

func (s *CandleService) support(ctx context.Context, support *models.CandleSupport) error {
	err := s.candles.AddSupport(ctx, support, s.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrCandleNotFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrAlreadySupported
	case err != nil:
		return err
	}
	incrCounter(ctx, s.counters, store.CounterSupportSent)
	return nil
}

// ExpireStale marks every candle past its expiry as expired.
func (s *CandleService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.candles.ExpireBefore(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to expire candles: %w", err)
	}
	metrics.CandlesExpiredTotal.Add(float64(n))
	return n, nil
}

// StartExpiry runs ExpireStale every interval until ctx is cancelled.
func (s *CandleService) StartExpiry(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := s.ExpireStale(ctx)
				if err != nil {
					slog.Error("candle expiry failed", "action", "candle_expiry", "error", err)
				} else if n > 0 {
					slog.Info("candles expired", "count", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

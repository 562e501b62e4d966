package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/themessagevault/vault-backend/internal/models"
)

type CandleStore interface {
	Create(ctx context.Context, candle *models.Candle) error
	Active(ctx context.Context, now time.Time, limit int) ([]models.Candle, error)
	AddSupport(ctx context.Context, support *models.CandleSupport, now time.Time) error
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
}

type GormCandleStore struct {
	db *gorm.DB
}

func NewCandleStore(db *gorm.DB) *GormCandleStore {
	return &GormCandleStore{db: db}
}

func (s *GormCandleStore) Create(ctx context.Context, candle *models.Candle) error {
	if candle.ID == uuid.Nil {
		candle.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(candle).Error; err != nil {
		return fmt.Errorf("failed to create candle: %w", err)
	}
	return nil
}

// Active returns lit candles that have not expired yet, newest first.
func (s *GormCandleStore) Active(ctx context.Context, now time.Time, limit int) ([]models.Candle, error) {
	var candles []models.Candle
	err := s.db.WithContext(ctx).
		Where("status = ? AND expires_at > ?", models.CandleActive, now).
		Order("created_at DESC").
		Limit(limit).
		Find(&candles).Error
	return candles, err
}

// AddSupport records a light or message and bumps the matching counter on
// the candle. A session can support a candle only once.
func (s *GormCandleStore) AddSupport(ctx context.Context, support *models.CandleSupport, now time.Time) error {
	column := "lights_sent"
	if support.SupportType == models.SupportMessage {
		column = "messages_received"
	}
	if support.ID == uuid.Nil {
		support.ID = uuid.New()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Candle{}).
			Where("id = ? AND status = ? AND expires_at > ?", support.CandleID, models.CandleActive, now).
			UpdateColumn(column, gorm.Expr(column+" + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(support).Error
	})
	return translate(err)
}

func (s *GormCandleStore) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Candle{}).
		Where("status = ? AND expires_at <= ?", models.CandleActive, now).
		Update("status", models.CandleExpired)
	return result.RowsAffected, result.Error
}

func (s *GormCandleStore) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Candle{}).
		Where("status = ? AND expires_at > ?", models.CandleActive, now).
		Count(&n).Error
	return n, err
}

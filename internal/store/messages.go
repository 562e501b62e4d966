package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/themessagevault/vault-backend/internal/models"
)

type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	RecentActive(ctx context.Context, limit int) ([]models.Message, error)
	AddHeart(ctx context.Context, id uuid.UUID, sessionHash string) (int, error)
	Report(ctx context.Context, id uuid.UUID) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Message, int64, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	CountActive(ctx context.Context) (int64, error)
}

type GormMessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *GormMessageStore {
	return &GormMessageStore{db: db}
}

func (s *GormMessageStore) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// RecentActive returns up to limit active messages, newest first.
func (s *GormMessageStore) RecentActive(ctx context.Context, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.WithContext(ctx).
		Where("status = ?", models.MessageActive).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

// AddHeart increments the message's heart count once per session and
// returns the new count.
func (s *GormMessageStore) AddHeart(ctx context.Context, id uuid.UUID, sessionHash string) (int, error) {
	var hearts int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Message{}).
			Where("id = ? AND status = ?", id, models.MessageActive).
			UpdateColumn("hearts", gorm.Expr("hearts + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		heart := models.MessageHeart{ID: uuid.New(), MessageID: id, SessionHash: sessionHash}
		if err := tx.Create(&heart).Error; err != nil {
			return translate(err)
		}

		return tx.Model(&models.Message{}).Select("hearts").Where("id = ?", id).Scan(&hearts).Error
	})
	if err != nil {
		return 0, translate(err)
	}
	return hearts, nil
}

// Report takes an active message out of rotation until an admin reviews it.
func (s *GormMessageStore) Report(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND status <> ?", id, models.MessageRemoved).
		Updates(map[string]interface{}{
			"status":       models.MessageReported,
			"report_count": gorm.Expr("report_count + ?", 1),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormMessageStore) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Message, int64, error) {
	var msgs []models.Message
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Message{}).Where("status = ?", status)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&msgs).Error; err != nil {
		return nil, 0, err
	}
	return msgs, total, nil
}

func (s *GormMessageStore) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormMessageStore) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Message{}).Where("status = ?", models.MessageActive).Count(&n).Error
	return n, err
}

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/themessagevault/vault-backend/internal/models"
)

type SupporterStore interface {
	Create(ctx context.Context, supporter *models.Supporter) error
	List(ctx context.Context, limit int) ([]models.Supporter, error)
}

type GormSupporterStore struct {
	db *gorm.DB
}

func NewSupporterStore(db *gorm.DB) *GormSupporterStore {
	return &GormSupporterStore{db: db}
}

func (s *GormSupporterStore) Create(ctx context.Context, supporter *models.Supporter) error {
	if supporter.ID == uuid.Nil {
		supporter.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(supporter).Error; err != nil {
		return fmt.Errorf("failed to create supporter: %w", err)
	}
	return nil
}

func (s *GormSupporterStore) List(ctx context.Context, limit int) ([]models.Supporter, error) {
	var supporters []models.Supporter
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&supporters).Error
	return supporters, err
}

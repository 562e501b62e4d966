package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/store"
)

const (
	maxSupporterName = 100
	supporterLimit   = 100
)

type SupporterService struct {
	supporters store.SupporterStore
	moderator  Moderator
}

func NewSupporterService(supporters store.SupporterStore, moderator Moderator) *SupporterService {
	return &SupporterService{supporters: supporters, moderator: moderator}
}

// Add puts a supporter on the wall. The optional message is moderated like
// any other public text.
func (s *SupporterService) Add(ctx context.Context, name, tier, message string) (*models.Supporter, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxSupporterName {
		return nil, invalid(fmt.Sprintf("name is required and must be at most %d characters", maxSupporterName))
	}
	tier = strings.ToLower(strings.TrimSpace(tier))
	if !slices.Contains(models.SupporterTiers, tier) {
		return nil, invalid(fmt.Sprintf("tier must be one of: %s", strings.Join(models.SupporterTiers, ", ")))
	}

	message = strings.TrimSpace(message)
	if message != "" {
		if result := s.moderator.Moderate(ctx, message); !result.IsApproved {
			return nil, &RejectedError{Result: result}
		}
	}

	supporter := &models.Supporter{Name: name, Tier: tier, Message: message}
	if err := s.supporters.Create(ctx, supporter); err != nil {
		return nil, err
	}
	return supporter, nil
}

func (s *SupporterService) List(ctx context.Context) ([]models.Supporter, error) {
	return s.supporters.List(ctx, supporterLimit)
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/moderation"
)

type mockModerator struct {
	mock.Mock
}

func (m *mockModerator) Moderate(ctx context.Context, text string) moderation.Result {
	args := m.Called(text)
	return args.Get(0).(moderation.Result)
}

type mockMessageStore struct {
	mock.Mock
}

func (m *mockMessageStore) Create(ctx context.Context, msg *models.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageStore) RecentActive(ctx context.Context, limit int) ([]models.Message, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *mockMessageStore) AddHeart(ctx context.Context, id uuid.UUID, sessionHash string) (int, error) {
	args := m.Called(id, sessionHash)
	return args.Int(0), args.Error(1)
}

func (m *mockMessageStore) Report(ctx context.Context, id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockMessageStore) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Message, int64, error) {
	args := m.Called(status, limit, offset)
	return args.Get(0).([]models.Message), args.Get(1).(int64), args.Error(2)
}

func (m *mockMessageStore) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(id, status).Error(0)
}

func (m *mockMessageStore) CountActive(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type mockCandleStore struct {
	mock.Mock
}

func (m *mockCandleStore) Create(ctx context.Context, candle *models.Candle) error {
	return m.Called(candle).Error(0)
}

func (m *mockCandleStore) Active(ctx context.Context, now time.Time, limit int) ([]models.Candle, error) {
	args := m.Called(now, limit)
	return args.Get(0).([]models.Candle), args.Error(1)
}

func (m *mockCandleStore) AddSupport(ctx context.Context, support *models.CandleSupport, now time.Time) error {
	return m.Called(support, now).Error(0)
}

func (m *mockCandleStore) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCandleStore) CountActive(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type mockSupporterStore struct {
	mock.Mock
}

func (m *mockSupporterStore) Create(ctx context.Context, supporter *models.Supporter) error {
	return m.Called(supporter).Error(0)
}

func (m *mockSupporterStore) List(ctx context.Context, limit int) ([]models.Supporter, error) {
	args := m.Called(limit)
	return args.Get(0).([]models.Supporter), args.Error(1)
}

type mockCounters struct {
	mock.Mock
}

func (m *mockCounters) Incr(ctx context.Context, name string) (int64, error) {
	args := m.Called(name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCounters) Get(ctx context.Context, names ...string) (map[string]int64, error) {
	args := m.Called(names)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func approved() moderation.Result {
	return moderation.Evaluate(moderation.Scores{}, moderation.DefaultThresholds())
}

func rejected() moderation.Result {
	return moderation.Evaluate(moderation.Scores{Threat: 0.95}, moderation.DefaultThresholds())
}

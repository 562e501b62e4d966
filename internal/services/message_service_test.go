package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/themessagevault/vault-backend/internal/models"
	"github.com/themessagevault/vault-backend/internal/moderation"
	"github.com/themessagevault/vault-backend/internal/store"
)

const supportive = "You are going to make it through this, I believe in you."

func newMessageService() (*MessageService, *mockMessageStore, *mockCounters, *mockModerator) {
	msgs := new(mockMessageStore)
	counters := new(mockCounters)
	mod := new(mockModerator)
	svc := NewMessageService(msgs, counters, mod, moderation.NewPreFilter())
	svc.pick = func(n int) int { return n - 1 }
	return svc, msgs, counters, mod
}

func TestLeave_Approved(t *testing.T) {
	svc, msgs, counters, mod := newMessageService()
	mod.On("Moderate", "  "+supportive+" ").Return(approved())
	msgs.On("Create", mock.AnythingOfType("*models.Message")).Return(nil)
	counters.On("Incr", store.CounterMessagesLeft).Return(int64(1), nil)

	msg, err := svc.Leave(t.Context(), "hash", LeaveMessageInput{Text: "  " + supportive + " ", Tag: "Courage"})
	require.NoError(t, err)
	assert.Equal(t, supportive, msg.Text)
	assert.Equal(t, "Courage", msg.Tag)
	assert.Equal(t, models.DefaultSignoffs[len(models.DefaultSignoffs)-1], msg.Signoff)
	assert.Equal(t, models.MessageActive, msg.Status)
	assert.Equal(t, "hash", msg.SessionHash)
	assert.Zero(t, msg.Hearts)

	msgs.AssertExpectations(t)
	counters.AssertExpectations(t)
}

func TestLeave_RejectedIsNeverStored(t *testing.T) {
	svc, msgs, counters, mod := newMessageService()
	mod.On("Moderate", "I hate you and hope you die").Return(rejected())

	_, err := svc.Leave(t.Context(), "hash", LeaveMessageInput{Text: "I hate you and hope you die"})

	var rej *RejectedError
	require.ErrorAs(t, err, &rej)
	assert.False(t, rej.Result.IsApproved)
	assert.True(t, rej.Result.Flagged(string(moderation.AttrThreat)))
	msgs.AssertNotCalled(t, "Create", mock.Anything)
	counters.AssertNotCalled(t, "Incr", mock.Anything)
}

func TestLeave_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   LeaveMessageInput
	}{
		{"unknown tag", LeaveMessageInput{Text: supportive, Tag: "Rage"}},
		{"long signoff", LeaveMessageInput{Text: supportive, Signoff: "From someone who has a great deal to say about signoffs"}},
		{"spam signoff", LeaveMessageInput{Text: supportive, Signoff: "follow @me"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, msgs, _, mod := newMessageService()
			_, err := svc.Leave(t.Context(), "hash", tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			mod.AssertNotCalled(t, "Moderate", mock.Anything)
			msgs.AssertNotCalled(t, "Create", mock.Anything)
		})
	}
}

func TestLeave_DefaultTag(t *testing.T) {
	svc, msgs, counters, mod := newMessageService()
	mod.On("Moderate", supportive).Return(approved())
	msgs.On("Create", mock.Anything).Return(nil)
	counters.On("Incr", store.CounterMessagesLeft).Return(int64(0), errors.New("redis down"))

	msg, err := svc.Leave(t.Context(), "hash", LeaveMessageInput{Text: supportive, Signoff: "A friend"})
	require.NoError(t, err, "counter failures are not fatal")
	assert.Equal(t, DefaultTag, msg.Tag)
	assert.Equal(t, "A friend", msg.Signoff)
}

func TestTake(t *testing.T) {
	t.Run("empty vault", func(t *testing.T) {
		svc, msgs, counters, _ := newMessageService()
		msgs.On("RecentActive", takePool).Return([]models.Message{}, nil)

		_, err := svc.Take(t.Context())
		assert.ErrorIs(t, err, ErrVaultEmpty)
		counters.AssertNotCalled(t, "Incr", mock.Anything)
	})

	t.Run("random pick", func(t *testing.T) {
		svc, msgs, counters, _ := newMessageService()
		msgs.On("RecentActive", takePool).Return([]models.Message{{Text: "first one"}, {Text: "second one"}}, nil)
		counters.On("Incr", store.CounterMessagesTaken).Return(int64(7), nil)

		msg, err := svc.Take(t.Context())
		require.NoError(t, err)
		assert.Equal(t, "second one", msg.Text)
		counters.AssertExpectations(t)
	})
}

func TestHeart(t *testing.T) {
	id := uuid.New()

	t.Run("counts once", func(t *testing.T) {
		svc, msgs, counters, _ := newMessageService()
		msgs.On("AddHeart", id, "hash").Return(3, nil)
		counters.On("Incr", store.CounterHearts).Return(int64(10), nil)

		n, err := svc.Heart(t.Context(), "hash", id)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, msgs, counters, _ := newMessageService()
		msgs.On("AddHeart", id, "hash").Return(0, store.ErrDuplicate)

		_, err := svc.Heart(t.Context(), "hash", id)
		assert.ErrorIs(t, err, ErrAlreadyHearted)
		counters.AssertNotCalled(t, "Incr", mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		svc, msgs, _, _ := newMessageService()
		msgs.On("AddHeart", id, "hash").Return(0, store.ErrNotFound)

		_, err := svc.Heart(t.Context(), "hash", id)
		assert.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestReportAndResolve(t *testing.T) {
	id := uuid.New()
	svc, msgs, _, _ := newMessageService()
	msgs.On("Report", id).Return(nil)
	msgs.On("SetStatus", id, models.MessageActive).Return(nil)
	msgs.On("SetStatus", id, models.MessageRemoved).Return(store.ErrNotFound)

	require.NoError(t, svc.Report(t.Context(), id))
	require.NoError(t, svc.Resolve(t.Context(), id, "restore"))
	assert.ErrorIs(t, svc.Resolve(t.Context(), id, "remove"), ErrMessageNotFound)
	assert.ErrorIs(t, svc.Resolve(t.Context(), id, "ignore"), ErrInvalidInput)
	msgs.AssertExpectations(t)
}

package moderation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/themessagevault/vault-backend/internal/moderation"
)

type mockScorer struct {
	mock.Mock
}

func (m *mockScorer) Score(ctx context.Context, text string) moderation.Result {
	args := m.Called(text)
	return args.Get(0).(moderation.Result)
}

type panickingScorer struct{}

func (panickingScorer) Score(context.Context, string) moderation.Result {
	panic("scorer exploded")
}

func assertInvariants(t *testing.T, res moderation.Result) {
	t.Helper()
	assert.Equal(t, len(res.FlaggedAttributes) == 0, res.IsApproved, "approved iff no flags")
	assert.Equal(t, !res.IsApproved, res.Reason != "", "reason iff rejected")
	for _, attr := range moderation.Attributes {
		v := res.Scores.Get(attr)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestService_PreFilterRejectionSkipsScorer(t *testing.T) {
	scorer := new(mockScorer)
	svc := moderation.NewService(moderation.NewPreFilter(), scorer)

	for _, text := range []string{"too short", "aaaaaaaaaaaaaaaaaaaa", "please just die already"} {
		res := svc.Moderate(t.Context(), text)
		assert.False(t, res.IsApproved, text)
		assertInvariants(t, res)
	}
	scorer.AssertNotCalled(t, "Score", mock.Anything)
}

func TestService_DelegatesToScorer(t *testing.T) {
	scorer := new(mockScorer)
	want := moderation.Evaluate(moderation.Scores{Insult: 0.95}, moderation.DefaultThresholds())
	scorer.On("Score", cleanText).Return(want).Once()

	svc := moderation.NewService(moderation.NewPreFilter(), scorer)
	res := svc.Moderate(t.Context(), cleanText)

	assert.Equal(t, want, res)
	assertInvariants(t, res)
	scorer.AssertExpectations(t)
}

func TestService_PanicFailsClosed(t *testing.T) {
	svc := moderation.NewService(moderation.NewPreFilter(), panickingScorer{})

	res := svc.Moderate(t.Context(), cleanText)
	assert.False(t, res.IsApproved)
	assert.Equal(t, []string{moderation.FlagError}, res.FlaggedAttributes)
	assert.Contains(t, res.Reason, "try again")
	assertInvariants(t, res)
}

func TestService_DegradedApproveWhenUnconfigured(t *testing.T) {
	pf := moderation.NewPreFilter()
	scorer := moderation.NewPerspectiveScorer(moderation.PerspectiveConfig{
		Thresholds: moderation.DefaultThresholds(),
	}, pf, nil)
	svc := moderation.NewService(pf, scorer)

	res := svc.Moderate(t.Context(), cleanText)
	assert.True(t, res.IsApproved)
	assert.Equal(t, moderation.Scores{}, res.Scores)
	assertInvariants(t, res)
}

func TestService_EndToEnd(t *testing.T) {
	t.Run("threat is rejected at high intensity", func(t *testing.T) {
		scores := lowScores()
		scores["THREAT"] = 0.95
		pf := moderation.NewPreFilter()
		svc := moderation.NewService(pf, newScorer(t, &perspectiveStub{scores: scores}, "k"))

		res := svc.Moderate(t.Context(), "I hate you and hope you die")
		assert.False(t, res.IsApproved)
		assert.True(t, res.Flagged("threat"))
		assert.Equal(t, moderation.IntensityHigh, moderation.IntensityFor(res.Scores.Threat))
		assert.Equal(t, moderation.Explain(moderation.AttrThreat, 0.95), res.Reason)
		assertInvariants(t, res)
	})

	t.Run("supportive message is approved", func(t *testing.T) {
		pf := moderation.NewPreFilter()
		svc := moderation.NewService(pf, newScorer(t, &perspectiveStub{scores: lowScores()}, "k"))

		res := svc.Moderate(t.Context(), cleanText)
		assert.True(t, res.IsApproved)
		assertInvariants(t, res)
	})
}

func TestService_Idempotent(t *testing.T) {
	scores := lowScores()
	scores["TOXICITY"] = 0.82
	pf := moderation.NewPreFilter()
	svc := moderation.NewService(pf, newScorer(t, &perspectiveStub{scores: scores}, "k"))

	first := svc.Moderate(t.Context(), cleanText)
	second := svc.Moderate(t.Context(), cleanText)
	assert.Equal(t, first, second)
}

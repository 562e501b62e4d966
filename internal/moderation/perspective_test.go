package moderation_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themessagevault/vault-backend/internal/moderation"
)

const cleanText = "You are going to make it through this, I believe in you."

// perspectiveStub serves canned attribute scores and records the last
// request it received.
type perspectiveStub struct {
	mu      sync.Mutex
	scores  map[string]float64
	status  int
	body    string
	delay   time.Duration
	calls   int
	lastKey string
	lastReq map[string]any
}

func (p *perspectiveStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	p.mu.Lock()
	p.calls++
	p.lastKey = r.URL.Query().Get("key")
	p.lastReq = body
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-r.Context().Done():
			return
		}
	}
	if p.status != 0 {
		w.WriteHeader(p.status)
	}
	if p.body != "" {
		w.Write([]byte(p.body))
		return
	}

	attrs := make(map[string]any, len(p.scores))
	for name, v := range p.scores {
		attrs[name] = map[string]any{"summaryScore": map[string]any{"value": v, "type": "PROBABILITY"}}
	}
	json.NewEncoder(w).Encode(map[string]any{"attributeScores": attrs, "languages": []string{"en"}})
}

func (p *perspectiveStub) snapshot() (calls int, key string, req map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls, p.lastKey, p.lastReq
}

func newScorer(t *testing.T, stub *perspectiveStub, key string) *moderation.PerspectiveScorer {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	return moderation.NewPerspectiveScorer(moderation.PerspectiveConfig{
		APIKey:     key,
		URL:        srv.URL + "/v1alpha1/comments:analyze",
		Timeout:    200 * time.Millisecond,
		Thresholds: moderation.DefaultThresholds(),
	}, moderation.NewPreFilter(), srv.Client())
}

func lowScores() map[string]float64 {
	return map[string]float64{
		"TOXICITY": 0.1, "SEVERE_TOXICITY": 0.02, "IDENTITY_ATTACK": 0.05,
		"INSULT": 0.08, "PROFANITY": 0.03, "THREAT": 0.01,
	}
}

func TestPerspectiveScorer_RequestShape(t *testing.T) {
	stub := &perspectiveStub{scores: lowScores()}
	scorer := newScorer(t, stub, "secret-key")

	res := scorer.Score(t.Context(), cleanText)
	require.True(t, res.IsApproved)

	calls, key, req := stub.snapshot()
	assert.Equal(t, 1, calls)
	assert.Equal(t, "secret-key", key)
	assert.Equal(t, map[string]any{"text": cleanText}, req["comment"])
	assert.Equal(t, []any{"en"}, req["languages"])

	requested, ok := req["requestedAttributes"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, requested, 6)
	for _, name := range []string{"TOXICITY", "SEVERE_TOXICITY", "IDENTITY_ATTACK", "INSULT", "PROFANITY", "THREAT"} {
		assert.Contains(t, requested, name)
	}
}

func TestPerspectiveScorer_AllBelowThresholds(t *testing.T) {
	scorer := newScorer(t, &perspectiveStub{scores: lowScores()}, "k")

	res := scorer.Score(t.Context(), cleanText)
	assert.True(t, res.IsApproved)
	assert.Empty(t, res.FlaggedAttributes)
	assert.Empty(t, res.Reason)
	assert.InDelta(t, 0.1, res.Scores.Toxicity, 1e-9)
	assert.InDelta(t, 0.01, res.Scores.Threat, 1e-9)
}

func TestPerspectiveScorer_Threat(t *testing.T) {
	scores := lowScores()
	scores["THREAT"] = 0.9
	scorer := newScorer(t, &perspectiveStub{scores: scores}, "k")

	res := scorer.Score(t.Context(), cleanText)
	assert.False(t, res.IsApproved)
	assert.Equal(t, []string{"threat"}, res.FlaggedAttributes)
	assert.Equal(t, moderation.Explain(moderation.AttrThreat, 0.9), res.Reason)
	assert.InDelta(t, 0.9, res.Scores.Threat, 1e-9)
}

func TestPerspectiveScorer_MissingAttributesScoreZero(t *testing.T) {
	scorer := newScorer(t, &perspectiveStub{scores: map[string]float64{"INSULT": 0.2}}, "k")

	res := scorer.Score(t.Context(), cleanText)
	assert.True(t, res.IsApproved)
	assert.Equal(t, moderation.Scores{Insult: 0.2}, res.Scores)
}

func TestPerspectiveScorer_FallsBack(t *testing.T) {
	tests := []struct {
		name string
		stub *perspectiveStub
	}{
		{"server error", &perspectiveStub{status: http.StatusInternalServerError, body: "boom"}},
		{"quota", &perspectiveStub{status: http.StatusTooManyRequests, body: "{}"}},
		{"malformed json", &perspectiveStub{body: "{not json"}},
		{"timeout", &perspectiveStub{scores: lowScores(), delay: 2 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := newScorer(t, tt.stub, "k")

			res := scorer.Score(t.Context(), cleanText)
			assert.True(t, res.IsApproved)
			assert.Equal(t, moderation.Scores{}, res.Scores)
			assert.Empty(t, res.Reason)
		})
	}
}

func TestPerspectiveScorer_Unconfigured(t *testing.T) {
	for _, key := range []string{"", "   ", "your-perspective-api-key"} {
		stub := &perspectiveStub{scores: lowScores()}
		scorer := newScorer(t, stub, key)

		assert.False(t, scorer.Configured())
		res := scorer.Score(t.Context(), cleanText)
		assert.True(t, res.IsApproved)
		calls, _, _ := stub.snapshot()
		assert.Equal(t, 0, calls, "no request without a key")
	}
}

func TestPerspectiveScorer_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	scorer := moderation.NewPerspectiveScorer(moderation.PerspectiveConfig{
		APIKey:     "k",
		URL:        url,
		Timeout:    200 * time.Millisecond,
		Thresholds: moderation.DefaultThresholds(),
	}, moderation.NewPreFilter(), nil)

	res := scorer.Score(t.Context(), cleanText)
	assert.True(t, res.IsApproved)
}

func TestEvaluate(t *testing.T) {
	th := moderation.DefaultThresholds()

	t.Run("flags every attribute over threshold in order", func(t *testing.T) {
		res := moderation.Evaluate(moderation.Scores{
			Toxicity: 0.75, SevereToxicity: 0.55, IdentityAttack: 0.65,
			Insult: 0.72, Profanity: 0.85, Threat: 0.51,
		}, th)
		assert.False(t, res.IsApproved)
		assert.Equal(t, []string{"toxicity", "severe_toxicity", "identity_attack", "insult", "profanity", "threat"}, res.FlaggedAttributes)
		// Profanity is the highest flagged score.
		assert.Equal(t, moderation.Explain(moderation.AttrProfanity, 0.85), res.Reason)
	})

	t.Run("threshold itself does not flag", func(t *testing.T) {
		res := moderation.Evaluate(moderation.Scores{Toxicity: 0.7, Threat: 0.5, Profanity: 0.8}, th)
		assert.True(t, res.IsApproved)
	})

	t.Run("ties keep the first attribute", func(t *testing.T) {
		res := moderation.Evaluate(moderation.Scores{Insult: 0.9, Threat: 0.9}, th)
		assert.Equal(t, []string{"insult", "threat"}, res.FlaggedAttributes)
		assert.Equal(t, moderation.Explain(moderation.AttrInsult, 0.9), res.Reason)
	})

	t.Run("severe toxicity uses its own messages", func(t *testing.T) {
		res := moderation.Evaluate(moderation.Scores{SevereToxicity: 0.7}, th)
		assert.Equal(t, moderation.Explain(moderation.AttrSevereToxicity, 0.7), res.Reason)
		assert.Contains(t, res.Reason, "too harsh")
	})
}

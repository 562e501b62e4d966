package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/themessagevault/vault-backend/internal/metrics"
)

const (
	DefaultPerspectiveURL     = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"
	DefaultPerspectiveTimeout = 5 * time.Second

	// placeholderAPIKey is the value shipped in sample env files.
	placeholderAPIKey = "your-perspective-api-key"
)

// Scorer produces a verdict for text that already passed the pre-filter.
// Implementations must not fail: any problem is folded into the Result.
type Scorer interface {
	Score(ctx context.Context, text string) Result
}

// PerspectiveConfig configures the Perspective API client.
type PerspectiveConfig struct {
	APIKey     string
	URL        string
	Timeout    time.Duration
	Thresholds Thresholds
}

// PerspectiveScorer scores text with Google's Perspective API and falls back
// to the pre-filter verdict whenever the API is unconfigured or unreachable.
type PerspectiveScorer struct {
	cfg        PerspectiveConfig
	httpClient *http.Client
	fallback   *PreFilter
}

// NewPerspectiveScorer builds a scorer. A nil httpClient gets a traced
// client whose timeout matches cfg.Timeout.
func NewPerspectiveScorer(cfg PerspectiveConfig, fallback *PreFilter, httpClient *http.Client) *PerspectiveScorer {
	if cfg.URL == "" {
		cfg.URL = DefaultPerspectiveURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPerspectiveTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &PerspectiveScorer{cfg: cfg, httpClient: httpClient, fallback: fallback}
}

// Configured reports whether a usable API key is present.
func (s *PerspectiveScorer) Configured() bool {
	key := strings.TrimSpace(s.cfg.APIKey)
	return key != "" && key != placeholderAPIKey
}

// Score asks the API for all six attributes. Without a key, or on any
// transport, status or decoding failure, it returns the pre-filter verdict
// instead (degraded approve for text that passed the pre-filter).
func (s *PerspectiveScorer) Score(ctx context.Context, text string) Result {
	if !s.Configured() {
		slog.Warn("perspective api key not configured, using pre-filter only")
		metrics.PerspectiveFailuresTotal.WithLabelValues("unconfigured").Inc()
		return s.fallback.Check(text)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.analyze(ctx, text)
	metrics.PerspectiveRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Error("perspective api request failed", "error", err, "latency_ms", float64(time.Since(start).Milliseconds()))
		metrics.PerspectiveFailuresTotal.WithLabelValues(failureReason(err)).Inc()
		return s.fallback.Check(text)
	}

	return Evaluate(resp.scores(), s.cfg.Thresholds)
}

// Evaluate compares scores with thresholds. Every attribute above its
// threshold is flagged; the highest flagged score becomes the primary
// concern that picks the rejection message.
func Evaluate(scores Scores, thresholds Thresholds) Result {
	var (
		flags   []string
		primary Attribute
		highest float64
	)
	for _, attr := range Attributes {
		v := scores.Get(attr)
		if v <= thresholds.For(attr) {
			continue
		}
		flags = append(flags, string(attr))
		if v > highest {
			highest = v
			primary = attr
		}
	}

	if len(flags) == 0 {
		return approve(scores)
	}
	return reject(scores, flags, Explain(primary, highest))
}

type analyzeRequest struct {
	Comment             analyzeComment      `json:"comment"`
	Languages           []string            `json:"languages"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type analyzeComment struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
			Type  string  `json:"type"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
	Languages []string `json:"languages"`
}

// scores reads the six attributes. An attribute the API left out scores 0,
// which may under-flag a partial response.
func (r *analyzeResponse) scores() Scores {
	var s Scores
	for _, attr := range Attributes {
		if as, ok := r.AttributeScores[apiName(attr)]; ok {
			s.set(attr, as.SummaryScore.Value)
		}
	}
	return s
}

func apiName(attr Attribute) string {
	return strings.ToUpper(string(attr))
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("perspective api returned status %d", e.code)
}

func (s *PerspectiveScorer) analyze(ctx context.Context, text string) (*analyzeResponse, error) {
	body := analyzeRequest{
		Comment:             analyzeComment{Text: text},
		Languages:           []string{"en"},
		RequestedAttributes: make(map[string]struct{}, len(Attributes)),
	}
	for _, attr := range Attributes {
		body.RequestedAttributes[apiName(attr)] = struct{}{}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid perspective url: %w", err)
	}
	q := endpoint.Query()
	q.Set("key", s.cfg.APIKey)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// The request URL carries the API key.
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = s.cfg.URL
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &statusError{code: resp.StatusCode}
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func failureReason(err error) string {
	var se *statusError
	switch {
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case strings.Contains(err.Error(), "decode"):
		return "decode"
	default:
		return "transport"
	}
}

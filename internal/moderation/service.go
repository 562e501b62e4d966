package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/themessagevault/vault-backend/internal/metrics"
)

const reasonInternalError = "We couldn't review your message right now. Please try again in a moment."

// Service is the single entry point for moderating a submission. It holds
// only read-only configuration; build it once and share it.
type Service struct {
	preFilter *PreFilter
	scorer    Scorer
}

func NewService(preFilter *PreFilter, scorer Scorer) *Service {
	return &Service{preFilter: preFilter, scorer: scorer}
}

// PreFilter exposes the local rule set for callers that need a cheap check.
func (s *Service) PreFilter() *PreFilter {
	return s.preFilter
}

// Moderate runs the pre-filter and, if the text passes, the scorer.
//
// An unreachable or unconfigured scorer approves text that passed the
// pre-filter (handled inside the scorer). A panic anywhere in the pipeline
// rejects the submission with FlagError.
func (s *Service) Moderate(ctx context.Context, text string) (result Result) {
	ctx, span := otel.Tracer("vault/moderation").Start(ctx, "moderation.Moderate",
		trace.WithAttributes(attribute.Int("text.length", len(text))))
	defer span.End()

	stage := "prefilter"
	defer func() {
		if r := recover(); r != nil {
			slog.Error("moderation pipeline panicked", "action", "moderate", "stage", stage, "error", fmt.Sprint(r))
			sentry.CurrentHub().Recover(r)
			stage = "internal"
			result = reject(Scores{}, []string{FlagError}, reasonInternalError)
		}
		span.SetAttributes(
			attribute.String("moderation.stage", stage),
			attribute.Bool("moderation.approved", result.IsApproved),
			attribute.StringSlice("moderation.flags", result.FlaggedAttributes),
		)
		metrics.RecordModeration(stage, result.IsApproved, result.FlaggedAttributes)
	}()

	result = s.preFilter.Check(text)
	if !result.IsApproved {
		return result
	}

	stage = "scorer"
	return s.scorer.Score(ctx, text)
}

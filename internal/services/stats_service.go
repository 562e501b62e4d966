package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/themessagevault/vault-backend/internal/store"
)

type Stats struct {
	MessagesTaken  int64 `json:"messages_taken"`
	MessagesLeft   int64 `json:"messages_left"`
	HeartsGiven    int64 `json:"hearts_given"`
	CandlesLit     int64 `json:"candles_lit"`
	SupportSent    int64 `json:"support_sent"`
	ActiveMessages int64 `json:"active_messages"`
	ActiveCandles  int64 `json:"active_candles"`
}

type StatsService struct {
	counters store.Counters
	messages store.MessageStore
	candles  store.CandleStore
	now      func() time.Time
}

func NewStatsService(counters store.Counters, messages store.MessageStore, candles store.CandleStore) *StatsService {
	return &StatsService{counters: counters, messages: messages, candles: candles, now: time.Now}
}

// Snapshot reads the Redis counters and the live Postgres counts
// concurrently. Any failing source fails the snapshot.
func (s *StatsService) Snapshot(ctx context.Context) (*Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.counters.Get(ctx,
			store.CounterMessagesTaken,
			store.CounterMessagesLeft,
			store.CounterHearts,
			store.CounterCandlesLit,
			store.CounterSupportSent,
		)
		if err != nil {
			return err
		}
		stats.MessagesTaken = counts[store.CounterMessagesTaken]
		stats.MessagesLeft = counts[store.CounterMessagesLeft]
		stats.HeartsGiven = counts[store.CounterHearts]
		stats.CandlesLit = counts[store.CounterCandlesLit]
		stats.SupportSent = counts[store.CounterSupportSent]
		return nil
	})
	g.Go(func() error {
		n, err := s.messages.CountActive(ctx)
		stats.ActiveMessages = n
		return err
	})
	g.Go(func() error {
		n, err := s.candles.CountActive(ctx, s.now())
		stats.ActiveCandles = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

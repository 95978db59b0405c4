package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/metrics"
)

// SentimentScorer scores one utterance in [-1, 1]
type SentimentScorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Config controls sentiment scoring fan-out
type Config struct {
	// ScoreTimeout bounds each scoring call
	ScoreTimeout time.Duration
	// MaxInFlight limits concurrent scoring calls; 0 means unlimited.
	// Utterances arriving while the limit is reached are not scored.
	MaxInFlight int
}

// Reducer folds the events of one interaction session into a summary.
// A Reducer is single-use: once closed it rejects further events.
type Reducer struct {
	scorer  SentimentScorer
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	summary entities.InteractionSummary
	tally   entities.SentimentTally
	closed  bool
	done    chan struct{}

	scoring errgroup.Group
}

// NewReducer creates a reducer for one session. scorer may be nil.
func NewReducer(scorer SentimentScorer, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Reducer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ScoreTimeout <= 0 {
		cfg.ScoreTimeout = 5 * time.Second
	}
	r := &Reducer{
		scorer:  scorer,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		summary: entities.InteractionSummary{Transcript: []string{}},
		done:    make(chan struct{}),
	}
	if cfg.MaxInFlight > 0 {
		r.scoring.SetLimit(cfg.MaxInFlight)
	}
	return r
}

// Apply folds one event. Events must be applied from a single goroutine, in
// arrival order. ctx scopes the asynchronous scoring it may start.
// After a ConnectionClosed event every call returns entities.ErrSessionClosed.
func (r *Reducer) Apply(ctx context.Context, ev entities.InteractionEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return entities.ErrSessionClosed
	}

	switch ev.Kind {
	case entities.EventCallerUtterance:
		r.summary.Transcript = append(r.summary.Transcript, fmt.Sprintf("%s: %s", entities.CallerLabel, ev.Text))
		r.summary.LastCallerLine = ev.Text
		r.mu.Unlock()
		if r.scorer != nil {
			started := r.scoring.TryGo(func() error {
				r.score(ctx, ev.Text)
				return nil
			})
			if !started {
				r.metrics.RecordSentimentSkipped()
				r.logger.Warn("⚠️ Sentiment scoring skipped, limit reached",
					zap.Int("max_in_flight", r.cfg.MaxInFlight))
			}
		}
		return nil

	case entities.EventAgentUtterance:
		r.summary.Transcript = append(r.summary.Transcript, fmt.Sprintf("%s: %s", entities.ReceptionistLabel, ev.Text))
		r.summary.LastAgentLine = ev.Text

	case entities.EventLanguageHint:
		r.summary.DetectedLanguage = ev.Language

	case entities.EventConnectionClosed:
		r.closed = true
		r.summary.CloseCode = ev.CloseCode
		r.summary.CloseReason = ev.Reason
		r.mu.Unlock()
		r.finalize()
		return nil
	}

	r.mu.Unlock()
	return nil
}

// score runs one scoring call; failures are logged and swallowed
func (r *Reducer) score(ctx context.Context, text string) {
	scoreCtx, cancel := context.WithTimeout(ctx, r.cfg.ScoreTimeout)
	defer cancel()

	value, err := r.scorer.Score(scoreCtx, text)
	if err != nil {
		r.metrics.RecordSentimentError()
		r.logger.Warn("⚠️ Sentiment scoring failed", zap.Error(err))
		return
	}

	r.mu.Lock()
	r.tally.Add(clampScore(value))
	r.mu.Unlock()
}

// finalize waits for outstanding scoring calls, then fixes the sentiment
func (r *Reducer) finalize() {
	_ = r.scoring.Wait()

	r.mu.Lock()
	r.summary.Sentiment = r.tally.Sentiment()
	code, samples, avg := r.summary.CloseCode, r.tally.Count, r.tally.Average()
	r.mu.Unlock()

	r.metrics.RecordSessionClosed(code != entities.CloseNormal)
	r.logger.Info("✅ Interaction session finalized",
		zap.Int("close_code", code),
		zap.Int("sentiment_samples", samples),
		zap.Float64("sentiment_average", avg),
	)
	close(r.done)
}

// Closed reports whether the terminal event has been applied
func (r *Reducer) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Summary returns the final summary. ok is false until the session closed.
func (r *Reducer) Summary() (entities.InteractionSummary, bool) {
	select {
	case <-r.done:
	default:
		return entities.InteractionSummary{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.summary
	s.Transcript = append([]string(nil), r.summary.Transcript...)
	return s, true
}

// Reduce consumes frames in arrival order until the sequence ends and returns
// the final summary. Corrupt frames are dropped; a sequence that ends without
// a close frame is finalized as an abnormal closure.
func (r *Reducer) Reduce(ctx context.Context, frames iter.Seq[Frame]) (entities.InteractionSummary, error) {
	for f := range frames {
		ev, err := DecodeFrame(f)
		switch {
		case errors.Is(err, errIgnoredFrame):
			r.logger.Debug("ignoring frame", zap.ByteString("payload", f.Payload))
			continue
		case err != nil:
			r.metrics.RecordDroppedFrame("malformed")
			r.logger.Warn("⚠️ Dropping malformed frame", zap.Error(err))
			continue
		}

		if err := r.Apply(ctx, ev); err != nil {
			if errors.Is(err, entities.ErrSessionClosed) {
				r.metrics.RecordDroppedFrame("after_close")
				r.logger.Warn("⚠️ Event received after session closed", zap.String("kind", string(ev.Kind)))
				continue
			}
			r.metrics.RecordDroppedFrame("rejected")
			r.logger.Warn("⚠️ Event rejected", zap.Error(err))
		}
	}

	if !r.Closed() {
		_ = r.Apply(ctx, entities.ConnectionClosed(entities.CloseAbnormal, "stream ended without close"))
	}

	summary, ok := r.Summary()
	if !ok {
		return entities.InteractionSummary{}, errors.New("session did not finalize")
	}
	return summary, nil
}

func clampScore(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

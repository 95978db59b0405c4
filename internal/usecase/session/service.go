package session

import (
	"context"
	"iter"

	"go.uber.org/zap"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/metrics"
)

// Service aggregates live sessions and publishes their summaries
type Service struct {
	scorer  SentimentScorer
	cfg     Config
	store   *SummaryStore
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a session service. scorer and store may be nil.
func NewService(scorer SentimentScorer, cfg Config, store *SummaryStore, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{scorer: scorer, cfg: cfg, store: store, logger: logger, metrics: m}
}

// Consume reduces one connection's frames and stores the resulting summary
// under callID. ctx is the connection lifetime.
func (s *Service) Consume(ctx context.Context, callID string, frames iter.Seq[Frame]) (entities.InteractionSummary, error) {
	logger := s.logger.With(zap.String("call_id", callID))
	logger.Info("🎧 Interaction session started")

	reducer := NewReducer(s.scorer, s.cfg, logger, s.metrics)
	summary, err := reducer.Reduce(ctx, frames)
	if err != nil {
		return entities.InteractionSummary{}, err
	}
	summary.CallID = callID

	if s.store != nil && callID != "" {
		// the connection context may already be gone
		if err := s.store.Save(context.WithoutCancel(ctx), callID, summary); err != nil {
			logger.Error("❌ Failed to store interaction summary", zap.Error(err))
		}
	}

	logger.Info("✅ Interaction summary ready",
		zap.Int("lines", len(summary.Transcript)),
		zap.String("language", summary.DetectedLanguage),
		zap.String("sentiment", string(summary.Sentiment)),
	)
	return summary, nil
}

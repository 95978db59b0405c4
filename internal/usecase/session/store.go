package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/johnquangdev/voice-receptionist/errors"
	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/infrastructure/cache"
)

// SummaryTTL is how long a finalized summary stays available to voice turns
const SummaryTTL = time.Hour

const summaryKeyPrefix = "summary:"

// SummaryStore keeps finalized summaries by call ID
type SummaryStore struct {
	cache cache.Store
	ttl   time.Duration
}

// NewSummaryStore creates a store on top of a cache backend
func NewSummaryStore(store cache.Store, ttl time.Duration) *SummaryStore {
	if ttl <= 0 {
		ttl = SummaryTTL
	}
	return &SummaryStore{cache: store, ttl: ttl}
}

// Save stores a summary under its call ID
func (s *SummaryStore) Save(ctx context.Context, callID string, summary entities.InteractionSummary) error {
	if callID == "" {
		return fmt.Errorf("save summary: empty call id")
	}
	summary.CallID = callID
	b, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := s.cache.Set(ctx, summaryKeyPrefix+callID, string(b), s.ttl); err != nil {
		return apperrors.ErrCacheFailed("save summary", err)
	}
	return nil
}

// Load returns the summary stored for callID, if any
func (s *SummaryStore) Load(ctx context.Context, callID string) (*entities.InteractionSummary, bool, error) {
	if callID == "" {
		return nil, false, nil
	}
	raw, ok, err := s.cache.Get(ctx, summaryKeyPrefix+callID)
	if err != nil {
		return nil, false, apperrors.ErrCacheFailed("load summary", err)
	}
	if !ok {
		return nil, false, nil
	}
	var summary entities.InteractionSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, false, fmt.Errorf("unmarshal summary %s: %w", callID, err)
	}
	return &summary, true, nil
}

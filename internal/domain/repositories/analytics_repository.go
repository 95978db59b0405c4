package repositories

import (
	"context"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
)

// AnalyticsRepository stores call analytics. Records are never updated.
type AnalyticsRepository interface {
	// Append inserts a new record
	Append(ctx context.Context, rec *entities.AnalyticsRecord) error

	// ListBySubscriber returns records newest first
	ListBySubscriber(ctx context.Context, email string, limit, offset int) ([]*entities.AnalyticsRecord, error)

	// CountBySubscriber returns the total number of records for a subscriber
	CountBySubscriber(ctx context.Context, email string) (int64, error)
}

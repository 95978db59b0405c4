package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/johnquangdev/voice-receptionist/internal/domain/entities"
	"github.com/johnquangdev/voice-receptionist/internal/domain/repositories"
)

// ErrDuplicateRecord is returned when an analytics record was already written
var ErrDuplicateRecord = errors.New("analytics record already exists")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// AnalyticsRepository implements the append-only analytics store using GORM
type AnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) repositories.AnalyticsRepository {
	return &AnalyticsRepository{
		db: db,
	}
}

// Append inserts a new record
func (r *AnalyticsRepository) Append(ctx context.Context, rec *entities.AnalyticsRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to append analytics record: %w", err)
	}
	return nil
}

// ListBySubscriber returns records newest first
func (r *AnalyticsRepository) ListBySubscriber(ctx context.Context, email string, limit, offset int) ([]*entities.AnalyticsRecord, error) {
	limit, offset = pageBounds(limit, offset)

	var records []*entities.AnalyticsRecord
	if err := r.db.WithContext(ctx).
		Where("subscriber_email = ?", email).
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list analytics: %w", err)
	}
	return records, nil
}

// CountBySubscriber returns the total number of records for a subscriber
func (r *AnalyticsRepository) CountBySubscriber(ctx context.Context, email string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.AnalyticsRecord{}).
		Where("subscriber_email = ?", email).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count analytics: %w", err)
	}
	return count, nil
}

// pageBounds clamps pagination parameters
func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

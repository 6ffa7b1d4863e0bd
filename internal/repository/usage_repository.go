package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UsageRepository provides persistence APIs for the usage ledger.
type UsageRepository struct {
	db *gorm.DB
	retrier
}

// NewUsageRepository creates a new repository instance.
func NewUsageRepository(db *gorm.DB, logger *zap.Logger) *UsageRepository {
	return &UsageRepository{
		db:      db,
		retrier: newRetrier(logger.Named("usage_repository")),
	}
}

// AutoMigrate ensures the schema is available.
func (r *UsageRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&UsageEntry{})
}

// Save appends one ledger entry.
func (r *UsageRepository) Save(ctx context.Context, entry *UsageEntry) error {
	return r.executeWithRetry(ctx, "repository.save_usage", "", func() error {
		return r.db.WithContext(ctx).Create(entry).Error
	})
}

// SumSince aggregates the recipient's spend per channel from the given
// instant onward. An empty result set yields zero rows and a zero total.
func (r *UsageRepository) SumSince(ctx context.Context, recipient string, from time.Time) ([]ChannelUsage, int64, error) {
	var rows []ChannelUsage
	err := r.db.WithContext(ctx).
		Model(&UsageEntry{}).
		Select("channel, COUNT(*) AS count, SUM(cost) AS total").
		Where("recipient = ? AND created_at >= ?", recipient, from).
		Group("channel").
		Order("channel").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	for _, row := range rows {
		total += row.Total
	}
	return rows, total, nil
}

// Reset removes every ledger entry.
func (r *UsageRepository) Reset(ctx context.Context) error {
	return r.executeWithRetry(ctx, "repository.reset_usage", "", func() error {
		return r.db.WithContext(ctx).Exec("DELETE FROM usage_entries").Error
	})
}

// All returns the full ledger ordered by insertion.
func (r *UsageRepository) All(ctx context.Context) ([]UsageEntry, error) {
	var entries []UsageEntry
	if err := r.db.WithContext(ctx).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

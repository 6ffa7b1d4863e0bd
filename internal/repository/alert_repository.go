package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AlertRepository provides persistence APIs for alert records.
type AlertRepository struct {
	db *gorm.DB
	retrier
}

// NewAlertRepository creates a new repository instance.
func NewAlertRepository(db *gorm.DB, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{
		db:      db,
		retrier: newRetrier(logger.Named("alert_repository")),
	}
}

// AutoMigrate ensures the schema is available.
func (r *AlertRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&AlertRecord{})
}

// Save persists one alert record.
func (r *AlertRepository) Save(ctx context.Context, record *AlertRecord) error {
	return r.executeWithRetry(ctx, "repository.save_alert", record.AlertID, func() error {
		return r.db.WithContext(ctx).Create(record).Error
	})
}

// FindByAlertID retrieves one alert record by its public identifier.
func (r *AlertRepository) FindByAlertID(ctx context.Context, alertID string) (*AlertRecord, error) {
	var record AlertRecord
	if err := r.db.WithContext(ctx).First(&record, "alert_id = ?", alertID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

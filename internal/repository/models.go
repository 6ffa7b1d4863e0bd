package repository

import (
	"time"
)

// Classification labels an ingested image by match outcome.
const (
	ClassificationKnownFace   = "known_face"
	ClassificationUnknownFace = "unknown_face"
)

// AlertRecord is one ingested image. Append-only; rows are never updated.
type AlertRecord struct {
	ID             uint      `gorm:"primaryKey"`
	AlertID        string    `gorm:"column:alert_id;uniqueIndex;size:64"`
	Classification string    `gorm:"column:classification;size:32"`
	ImageKey       string    `gorm:"column:image_key;size:255"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name.
func (AlertRecord) TableName() string {
	return "alert_records"
}

// UsageEntry is one billable action. Append-only; deletable only via Reset.
// Cost is stored in thousandths of a currency unit.
type UsageEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Recipient string    `gorm:"column:recipient;index;size:255"`
	Plan      string    `gorm:"column:plan;size:32"`
	Channel   string    `gorm:"column:channel;size:16"`
	Cost      int64     `gorm:"column:cost"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

// TableName overrides the default table name.
func (UsageEntry) TableName() string {
	return "usage_entries"
}

// ChannelUsage is one row of the month-to-date aggregation.
type ChannelUsage struct {
	Channel string `json:"channel"`
	Count   int64  `json:"count"`
	Total   int64  `json:"-"`
}

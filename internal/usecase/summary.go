package usecase

import (
	"context"

	"github.com/example/spotalert/internal/billing"
	"github.com/example/spotalert/internal/repository"
)

// ChannelDetail is the month-to-date aggregate for one channel.
type ChannelDetail struct {
	Channel string  `json:"channel"`
	Count   int64   `json:"count"`
	Total   float64 `json:"total"`
}

// UsageSummary represents a recipient's month-to-date spend.
type UsageSummary struct {
	Email     string          `json:"email"`
	Month     string          `json:"month"`
	TotalCost float64         `json:"total_cost"`
	Details   []ChannelDetail `json:"details"`
}

// GetUsageSummary aggregates the recipient's ledger entries since the first
// of the current month. A recipient with no entries gets a zero summary.
func (c *IngestionCoordinator) GetUsageSummary(ctx context.Context, recipient string) (*UsageSummary, error) {
	from := billing.MonthStart(c.now())
	rows, total, err := c.usage.SumSince(ctx, recipient, from)
	if err != nil {
		return nil, err
	}

	details := make([]ChannelDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, ChannelDetail{
			Channel: row.Channel,
			Count:   row.Count,
			Total:   billing.Amount(row.Total).Float64(),
		})
	}

	return &UsageSummary{
		Email:     recipient,
		Month:     from.Format("2006-01"),
		TotalCost: billing.Amount(total).Float64(),
		Details:   details,
	}, nil
}

// ResetUsage clears the whole ledger.
func (c *IngestionCoordinator) ResetUsage(ctx context.Context) error {
	return c.usage.Reset(ctx)
}

// ExportUsage returns every ledger entry in insertion order.
func (c *IngestionCoordinator) ExportUsage(ctx context.Context) ([]repository.UsageEntry, error) {
	return c.usage.All(ctx)
}

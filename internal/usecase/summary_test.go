package usecase

import (
	"context"
	"testing"

	"github.com/example/spotalert/internal/repository"
)

func TestGetUsageSummaryEmptyLedgerIsZero(t *testing.T) {
	f := newFixture(t)

	summary, err := f.coord.GetUsageSummary(context.Background(), "nobody@x.com")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if summary.TotalCost != 0 {
		t.Fatalf("expected zero total, got %f", summary.TotalCost)
	}
	if summary.Details == nil || len(summary.Details) != 0 {
		t.Fatalf("expected empty details list, got %#v", summary.Details)
	}
	if summary.Month != "2026-08" {
		t.Fatalf("unexpected month: %s", summary.Month)
	}
	if summary.Email != "nobody@x.com" {
		t.Fatalf("unexpected email: %s", summary.Email)
	}
}

func TestGetUsageSummaryConvertsFixedPoint(t *testing.T) {
	f := newFixture(t)
	f.usage.sumRows = []repository.ChannelUsage{
		{Channel: "app", Count: 3, Total: 3},
		{Channel: "email", Count: 3, Total: 6},
	}
	f.usage.sumTotal = 9

	summary, err := f.coord.GetUsageSummary(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if summary.TotalCost != 0.009 {
		t.Fatalf("expected 0.009, got %f", summary.TotalCost)
	}
	if len(summary.Details) != 2 {
		t.Fatalf("expected 2 detail rows, got %d", len(summary.Details))
	}
	if summary.Details[1].Channel != "email" || summary.Details[1].Total != 0.006 {
		t.Fatalf("unexpected email row: %+v", summary.Details[1])
	}
}

func TestResetUsageClearsLedger(t *testing.T) {
	f := newFixture(t)

	if err := f.coord.ResetUsage(context.Background()); err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if f.usage.resetCalls != 1 {
		t.Fatalf("expected 1 reset call, got %d", f.usage.resetCalls)
	}

	summary, err := f.coord.GetUsageSummary(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}
	if summary.TotalCost != 0 {
		t.Fatalf("expected zero total after reset, got %f", summary.TotalCost)
	}
}

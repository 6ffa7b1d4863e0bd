package billing

import (
	"testing"
	"time"
)

func TestAmountString(t *testing.T) {
	cases := []struct {
		amount Amount
		want   string
	}{
		{0, "0.000"},
		{1, "0.001"},
		{2, "0.002"},
		{5003, "5.003"},
		{20000, "20.000"},
	}
	for _, tc := range cases {
		if got := tc.amount.String(); got != tc.want {
			t.Errorf("Amount(%d).String() = %s, want %s", tc.amount, got, tc.want)
		}
	}
}

func TestUnitCosts(t *testing.T) {
	if UnitCost(ChannelEmail)+UnitCost(ChannelApp) != 3 {
		t.Fatalf("one ingestion must charge 0.003, got %v", UnitCost(ChannelEmail)+UnitCost(ChannelApp))
	}
	if UnitCost(Channel("carrier-pigeon")) != 0 {
		t.Fatal("unknown channels must cost zero")
	}
}

func TestNormalizePlanFallsBackToFree(t *testing.T) {
	if got := NormalizePlan("Standard"); got != PlanStandard {
		t.Fatalf("expected Standard, got %s", got)
	}
	if got := NormalizePlan("platinum"); got != PlanFree {
		t.Fatalf("expected unknown plan to map to Free, got %s", got)
	}
	if got := NormalizePlan(""); got != PlanFree {
		t.Fatalf("expected empty plan to map to Free, got %s", got)
	}
}

func TestCeilingExceededAfterRepeatedCharges(t *testing.T) {
	// 1667 ingestions at 0.003 each lands on 5.001, past the Standard ceiling.
	var total Amount
	calls := 0
	for total <= Ceiling(PlanStandard) {
		total += UnitCost(ChannelEmail) + UnitCost(ChannelApp)
		calls++
	}
	if calls != 1667 {
		t.Fatalf("expected ceiling crossed on call 1667, got %d (total %s)", calls, total)
	}
}

func TestMonthStart(t *testing.T) {
	now := time.Date(2026, time.August, 27, 13, 45, 12, 0, time.UTC)
	start := MonthStart(now)
	want := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("expected %v, got %v", want, start)
	}
}

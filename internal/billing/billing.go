// Package billing defines the fixed unit costs, subscription plans, and
// fixed-point money arithmetic used by the usage ledger.
package billing

import (
	"fmt"
	"time"
)

// Amount is a currency value in thousandths of a unit. Integer arithmetic
// keeps repeated small charges exact; 0.001 is representable, 1.0 is 1000.
type Amount int64

// Float64 converts the amount to currency units for JSON responses.
func (a Amount) Float64() float64 {
	return float64(a) / 1000
}

// String renders the amount in currency units with millis precision.
func (a Amount) String() string {
	return fmt.Sprintf("%.3f", a.Float64())
}

// Channel is a notification delivery medium with a fixed unit cost.
type Channel string

const (
	ChannelApp      Channel = "app"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

var channelCosts = map[Channel]Amount{
	ChannelApp:      1,  // 0.001
	ChannelEmail:    2,  // 0.002
	ChannelSMS:      5,  // 0.005
	ChannelWhatsApp: 10, // 0.010
}

// UnitCost returns the fixed cost of one billable action on the channel.
// Unknown channels cost zero.
func UnitCost(ch Channel) Amount {
	return channelCosts[ch]
}

// Plan names a subscription tier with a monthly spend ceiling.
type Plan string

const (
	PlanFree     Plan = "Free"
	PlanStandard Plan = "Standard"
	PlanPremium  Plan = "Premium"
)

var planCeilings = map[Plan]Amount{
	PlanFree:     0,
	PlanStandard: 5000,  // 5.000
	PlanPremium:  20000, // 20.000
}

// NormalizePlan maps an arbitrary declared plan name onto a known tier.
// Unknown values fall back to the zero-ceiling Free plan.
func NormalizePlan(name string) Plan {
	p := Plan(name)
	if _, ok := planCeilings[p]; ok {
		return p
	}
	return PlanFree
}

// Ceiling returns the monthly spend limit for the plan.
func Ceiling(p Plan) Amount {
	return planCeilings[NormalizePlan(string(p))]
}

// MonthStart returns the first instant of the month containing now, in UTC.
func MonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

package notify

import (
	"fmt"
	"time"

	"github.com/example/spotalert/internal/billing"
)

// AlertSubject is the subject line for unknown-face alerts.
const AlertSubject = "SpotAlert: unknown face detected"

// TopUpSubject is the subject line for plan ceiling notices.
const TopUpSubject = "SpotAlert: monthly usage limit reached"

// AlertBody renders the unknown-face notification.
func AlertBody(detectedAt time.Time, imageKey string) string {
	return fmt.Sprintf(
		"<h3>Unknown face detected</h3>"+
			"<p>An unrecognized person was detected at <b>%s</b>.</p>"+
			"<p>Captured image: <code>%s</code></p>",
		detectedAt.UTC().Format("2006-01-02 15:04:05 MST"), imageKey)
}

// TopUpBody renders the ceiling-exceeded notice.
func TopUpBody(plan billing.Plan, spent, ceiling billing.Amount) string {
	return fmt.Sprintf(
		"<h3>Usage limit reached</h3>"+
			"<p>Your <b>%s</b> plan allows %s per month and you have used %s.</p>"+
			"<p>Please top up to keep receiving notifications.</p>",
		plan, ceiling, spent)
}

package notify

import "context"

// Mailer delivers a formatted message to one recipient. Callers in the
// ingestion path treat delivery as best-effort: failures are logged and
// never propagated.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

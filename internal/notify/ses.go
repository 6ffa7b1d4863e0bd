package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/example/spotalert/internal/logging"
)

// SESMailer implements Mailer on top of AWS SESv2.
type SESMailer struct {
	api    *sesv2.Client
	sender string
	logger *zap.Logger
}

// NewSESMailer builds a mailer sending from a verified address.
func NewSESMailer(cfg aws.Config, sender string, logger *zap.Logger) *SESMailer {
	return &SESMailer{
		api:    sesv2.NewFromConfig(cfg),
		sender: sender,
		logger: logger.Named("notify"),
	}
}

// Send delivers one HTML email.
func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	_, err := m.api.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	})
	if err != nil {
		wrapped := logging.NewOperationError("notify.send_email", "", err)
		m.logger.Error("email send failed", zap.Error(wrapped), zap.String("to", to))
		return wrapped
	}
	return nil
}

// internal/mailer/ses.go
package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"certificate-service/internal/common/aws"
	"certificate-service/internal/common/config"
	"certificate-service/internal/common/logger"
)

// SESSender delivers mail through AWS SES using the raw API, which carries
// the attachment intact.
type SESSender struct {
	client *aws.SESClient
	log    logger.Logger
}

func NewSESSender(ctx context.Context, cfg config.EmailConfig, log logger.Logger) (*SESSender, error) {
	client, err := aws.NewSESClient(ctx, cfg.SES.Region)
	if err != nil {
		return nil, fmt.Errorf("initialize SES client: %w", err)
	}
	return &SESSender{client: client, log: log}, nil
}

func (s *SESSender) Send(ctx context.Context, msg Message) error {
	s.log.Info("Sending email via SES", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})

	_, err := s.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: msg.MIME()},
		Source:       &msg.From,
		Destinations: []string{msg.To},
	})
	if err != nil {
		return fmt.Errorf("SES send failed: %w", err)
	}
	return nil
}

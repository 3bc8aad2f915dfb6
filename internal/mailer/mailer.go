// internal/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"

	"certificate-service/internal/common/config"
	"certificate-service/internal/common/logger"
)

// Sender delivers a built message. Implementations map to the configured
// provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the provider from configuration. A disabled email section gets
// a nil Sender; the pipeline treats that as "skip delivery".
func New(ctx context.Context, cfg config.EmailConfig, log logger.Logger) (Sender, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Provider {
	case "ses":
		return NewSESSender(ctx, cfg, log)
	case "smtp", "":
		return NewSMTPSender(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

package mailer

import (
	"context"

	"github.com/actinova/admin-backend/internal/config"
	"go.uber.org/zap"
)

// DeliveryStatus reports what happened to a message
type DeliveryStatus string

// Delivery statuses
const (
	StatusSent      DeliveryStatus = "sent"
	StatusSimulated DeliveryStatus = "simulated"
	StatusFailed    DeliveryStatus = "failed"
)

// Message is one outbound email. Template names the message kind for logs
// and metrics. Secret marks bodies that carry codes or tokens.
type Message struct {
	To       string
	Subject  string
	Text     string
	HTML     string
	Template string
	Secret   bool
}

// Mailer sends email. Send never retries; a transport error is returned
// together with StatusFailed.
type Mailer interface {
	Send(ctx context.Context, msg Message) (DeliveryStatus, error)
}

// New returns an SMTP mailer when host and credentials are configured and
// a console mailer otherwise.
func New(cfg config.SMTPConfig, logSecrets bool, logger *zap.Logger) Mailer {
	if cfg.Configured() {
		logger.Info("Mail transport configured", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		return NewSMTPMailer(cfg, logger)
	}
	logger.Warn("SMTP credentials missing, emails will be logged instead of sent")
	return NewConsoleMailer(logSecrets, logger)
}

package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs messages instead of sending them
type ConsoleMailer struct {
	logSecrets bool
	logger     *zap.Logger
}

// NewConsoleMailer creates a console mailer. Bodies of secret-bearing
// messages are only logged when logSecrets is set.
func NewConsoleMailer(logSecrets bool, logger *zap.Logger) *ConsoleMailer {
	return &ConsoleMailer{logSecrets: logSecrets, logger: logger}
}

// Send logs the message and reports it as simulated
func (m *ConsoleMailer) Send(ctx context.Context, msg Message) (DeliveryStatus, error) {
	fields := []zap.Field{
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.Template),
	}
	if !msg.Secret || m.logSecrets {
		fields = append(fields, zap.String("body", msg.Text))
	}
	m.logger.Info("Email simulated", fields...)
	return StatusSimulated, nil
}

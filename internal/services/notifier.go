package services

import (
	"context"
	"sync"
	"time"

	"github.com/actinova/admin-backend/internal/events"
	"github.com/actinova/admin-backend/internal/metrics"
	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/pkg/mailer"
	"go.uber.org/zap"
)

const backgroundTimeout = 30 * time.Second

// Notifier sends mail and audit events on behalf of services
type Notifier struct {
	mailer    mailer.Mailer
	publisher events.Publisher
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewNotifier creates a Notifier
func NewNotifier(m mailer.Mailer, p events.Publisher, logger *zap.Logger) *Notifier {
	return &Notifier{mailer: m, publisher: p, logger: logger}
}

// Send delivers msg and records its status
func (n *Notifier) Send(ctx context.Context, msg mailer.Message) (mailer.DeliveryStatus, error) {
	status, err := n.mailer.Send(ctx, msg)
	metrics.MailDeliveries.WithLabelValues(msg.Template, string(status)).Inc()
	return status, err
}

// SendAsync delivers msg in the background. The outcome is only logged.
func (n *Notifier) SendAsync(msg mailer.Message) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		status, err := n.Send(ctx, msg)
		if err != nil {
			n.logger.Warn("Background email not delivered",
				zap.String("template", msg.Template),
				zap.String("to", msg.To),
				zap.Error(err),
			)
			return
		}
		n.logger.Debug("Background email processed", zap.String("template", msg.Template), zap.String("status", string(status)))
	}()
}

// Publish emits an audit event. Failures are logged, never returned.
func (n *Notifier) Publish(ctx context.Context, session models.AdminSession, eventType string, data any) {
	event := events.Event{
		Type:       eventType,
		Actor:      session.Email,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.Warn("Audit event not published", zap.String("type", eventType), zap.Error(err))
	}
}

// Wait blocks until background sends have finished
func (n *Notifier) Wait() {
	n.wg.Wait()
}

package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"handyhub-session-svc/src/internal/config"
	"handyhub-session-svc/src/internal/models"
	"handyhub-session-svc/src/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var _ session.Notifier = (*ActivityPublisher)(nil)

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ActivityPublisher publishes session events to RabbitMQ.
type ActivityPublisher struct {
	channel  Channel
	cfg      *config.RabbitMQConfig
	clientID string
	now      func() time.Time
}

// NewActivityPublisher creates new activity publisher
func NewActivityPublisher(cfg *config.Configuration, channel Channel) *ActivityPublisher {
	return &ActivityPublisher{
		channel:  channel,
		cfg:      &cfg.Queue.RabbitMQ,
		clientID: cfg.App.ClientID,
		now:      time.Now,
	}
}

// Notify publishes the event; failures are logged and never block the session change.
func (p *ActivityPublisher) Notify(_ context.Context, event session.Event) {
	if err := p.PublishActivity(event); err != nil {
		logrus.WithError(err).WithField("action", event.Action).Warn("Session activity not published")
	}
}

// PublishActivity publishes session activity message to RabbitMQ
func (p *ActivityPublisher) PublishActivity(event session.Event) error {
	message := models.ActivityMessage{
		EventID:     uuid.NewString(),
		ClientID:    p.clientID,
		ServiceName: models.ServiceSessionManager,
		Action:      event.Action,
		Fingerprint: event.Fingerprint,
		Reason:      event.Reason,
		Timestamp:   p.now(),
	}
	if !event.ExpiresAt.IsZero() {
		expiresAt := event.ExpiresAt
		message.ExpiresAt = &expiresAt
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal activity message: %w", err)
	}

	err = p.channel.Publish(
		p.cfg.Exchange,
		p.cfg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   message.EventID,
			Body:        body,
			Timestamp:   message.Timestamp,
		},
	)

	if err != nil {
		logrus.WithError(err).Error("Failed to publish activity message")
		return fmt.Errorf("%w: %v", models.ErrPublishActivity, err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id":    message.EventID,
		"action":      event.Action,
		"exchange":    p.cfg.Exchange,
		"routing_key": p.cfg.RoutingKey,
	}).Debug("Activity message published")

	return nil
}

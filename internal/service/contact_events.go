package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/accuro-ph/accuro-api/internal/models"
)

// ContactCreatedEvent is published after a submission is stored.
type ContactCreatedEvent struct {
	Type    string                   `json:"type"`
	Source  string                   `json:"source"`
	Contact models.ContactSubmission `json:"contact"`
	SentAt  time.Time                `json:"sentAt"`
}

// ContactEventPublisher announces stored submissions to other systems.
type ContactEventPublisher interface {
	PublishCreated(ctx context.Context, contact models.ContactSubmission) error
}

// MessagePublisher is the subset of *nats.Conn used for events.
type MessagePublisher interface {
	Publish(subject string, data []byte) error
}

type natsContactEventPublisher struct {
	conn    MessagePublisher
	subject string
	source  string
	now     func() time.Time
	logger  zerolog.Logger
}

// NewContactEventPublisher publishes contact.created events on
// "<prefix>.contact.created". Pass a nil conn to disable publishing.
func NewContactEventPublisher(conn MessagePublisher, prefix, source string, logger zerolog.Logger) ContactEventPublisher {
	if conn == nil {
		return noopContactEventPublisher{}
	}
	subject := "contact.created"
	if prefix != "" {
		subject = prefix + "." + subject
	}
	return &natsContactEventPublisher{
		conn:    conn,
		subject: subject,
		source:  source,
		now:     time.Now,
		logger:  logger.With().Str("component", "contact_events").Logger(),
	}
}

func (p *natsContactEventPublisher) PublishCreated(ctx context.Context, contact models.ContactSubmission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(ContactCreatedEvent{
		Type:    "contact.created",
		Source:  p.source,
		Contact: contact,
		SentAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode contact event: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish contact event: %w", err)
	}

	p.logger.Debug().Str("subject", p.subject).Str("contact_id", contact.ID).Msg("contact event published")
	return nil
}

type noopContactEventPublisher struct{}

func (noopContactEventPublisher) PublishCreated(context.Context, models.ContactSubmission) error {
	return nil
}

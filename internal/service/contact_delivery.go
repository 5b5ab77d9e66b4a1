package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/accuro-ph/accuro-api/internal/models"
	"github.com/accuro-ph/accuro-api/internal/observability"
	"github.com/accuro-ph/accuro-api/pkg/mailer"
)

// Mailer delivers a rendered notification email.
type Mailer interface {
	Send(ctx context.Context, message mailer.Message) error
}

// ContactNotifier accepts stored submissions for asynchronous operator notification.
type ContactNotifier interface {
	// Enqueue never blocks; it reports false when the notification was dropped.
	Enqueue(contact models.ContactSubmission) bool
}

// LogMailer is used when outbound mail is disabled. It logs the message instead of sending it.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer constructs a logging mailer.
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("component", "log_mailer").Logger()}
}

// Send logs the message and returns nil to indicate success.
func (l *LogMailer) Send(ctx context.Context, message mailer.Message) error {
	l.logger.Info().
		Str("to", maskEmailAddress(message.To)).
		Str("subject", message.Subject).
		Msg("mail disabled, notification logged instead of sent")
	return nil
}

// DispatcherConfig tunes the notification worker pool.
type DispatcherConfig struct {
	Recipient string
	Location  *time.Location
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// ContactDispatcher renders and sends operator notifications on background
// workers so the submitting request never waits on the mail relay.
type ContactDispatcher struct {
	mailer    Mailer
	recipient string
	location  *time.Location
	timeout   time.Duration
	jobs      chan models.ContactSubmission
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewContactDispatcher starts the workers and returns the dispatcher.
func NewContactDispatcher(m Mailer, cfg DispatcherConfig, logger zerolog.Logger) *ContactDispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	d := &ContactDispatcher{
		mailer:    m,
		recipient: cfg.Recipient,
		location:  cfg.Location,
		timeout:   cfg.Timeout,
		jobs:      make(chan models.ContactSubmission, cfg.QueueSize),
		logger:    logger.With().Str("component", "contact_dispatcher").Logger(),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.work()
	}
	return d
}

// Enqueue hands the submission to a worker. A full queue or a closed
// dispatcher drops the notification.
func (d *ContactDispatcher) Enqueue(contact models.ContactSubmission) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(contact, "dispatcher closed")
		return false
	}

	select {
	case d.jobs <- contact:
		return true
	default:
		d.drop(contact, "notification queue full")
		return false
	}
}

// Close stops intake and waits for queued notifications until ctx expires.
func (d *ContactDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn().Int("pending", len(d.jobs)).Msg("notification drain interrupted")
		return ctx.Err()
	}
}

func (d *ContactDispatcher) work() {
	defer d.wg.Done()
	for contact := range d.jobs {
		d.deliver(contact)
	}
}

func (d *ContactDispatcher) deliver(contact models.ContactSubmission) {
	logger := d.logger.With().Str("contact_id", contact.ID).Logger()

	notification, err := RenderContactNotification(contact, d.location)
	if err != nil {
		observability.ContactNotifications().WithLabelValues("failed").Inc()
		logger.Error().Err(err).Msg("failed to render contact notification")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err = d.mailer.Send(ctx, mailer.Message{
		To:      d.recipient,
		ReplyTo: contact.Email,
		Subject: notification.Subject,
		HTML:    notification.HTML,
		Text:    notification.Text,
	})
	if err != nil {
		observability.ContactNotifications().WithLabelValues("failed").Inc()
		logger.Error().Err(err).Msg("contact notification failed")
		return
	}

	observability.ContactNotifications().WithLabelValues("sent").Inc()
	logger.Info().Str("subject", notification.Subject).Msg("contact notification sent")
}

func (d *ContactDispatcher) drop(contact models.ContactSubmission, reason string) {
	observability.ContactNotifications().WithLabelValues("dropped").Inc()
	d.logger.Warn().Str("contact_id", contact.ID).Str("reason", reason).Msg("contact notification dropped")
}

package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// Message is a single outbound email with an HTML body and a plain-text alternative.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Config contains the SMTP relay settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

// SMTPMailer delivers messages through an authenticated SMTP relay.
type SMTPMailer struct {
	client    *mail.Client
	fromEmail string
	fromName  string
	logger    zerolog.Logger
}

// New constructs an SMTP mailer. The connection is dialled per message.
func New(cfg Config, logger zerolog.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp host and credentials must be provided")
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.Username
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize smtp client: %w", err)
	}

	return &SMTPMailer{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger.With().Str("component", "smtp_mailer").Logger(),
	}, nil
}

// Send builds a multipart/alternative message and hands it to the relay.
func (m *SMTPMailer) Send(ctx context.Context, message Message) error {
	msg, err := m.build(message)
	if err != nil {
		return err
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Debug().Str("subject", message.Subject).Msg("email sent")
	return nil
}

func (m *SMTPMailer) build(message Message) (*mail.Msg, error) {
	if strings.TrimSpace(message.To) == "" {
		return nil, fmt.Errorf("email recipient must be provided")
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromEmail); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if message.ReplyTo != "" {
		// The submitter's address is user input; a bad one must not block delivery.
		if err := msg.ReplyTo(message.ReplyTo); err != nil {
			m.logger.Debug().Err(err).Msg("reply-to address rejected")
		}
	}
	msg.Subject(message.Subject)

	// Clients render the last alternative they support, so HTML goes after text.
	switch {
	case message.HTML != "" && message.Text != "":
		msg.SetBodyString(mail.TypeTextPlain, message.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, message.HTML)
	case message.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, message.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, message.Text)
	}

	return msg, nil
}

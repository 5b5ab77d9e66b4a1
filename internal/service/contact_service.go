package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/accuro-ph/accuro-api/internal/dto"
	"github.com/accuro-ph/accuro-api/internal/models"
	"github.com/accuro-ph/accuro-api/internal/observability"
	"github.com/accuro-ph/accuro-api/internal/repository"
	"github.com/accuro-ph/accuro-api/internal/validation"
)

var (
	// ErrContactSpam indicates the honeypot field was filled.
	ErrContactSpam = errors.New("contact submission flagged as spam")
	// ErrContactThrottled indicates the client exceeded the submission limit.
	ErrContactThrottled = errors.New("too many contact submissions")
	// ErrContactNotFound indicates the requested submission does not exist.
	ErrContactNotFound = repository.ErrContactNotFound
)

// ValidationError carries every rejected field of a submission.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact submission failed validation on %d field(s)", len(e.Fields))
}

// ContactService exposes the contact submission workflow.
type ContactService interface {
	Submit(ctx context.Context, req dto.ContactRequest) (models.ContactSubmission, error)
	List(ctx context.Context) ([]models.ContactSubmission, error)
	Get(ctx context.Context, id string) (models.ContactSubmission, error)
}

type contactService struct {
	repo        repository.ContactRepository
	validator   *validation.Validator
	throttle    ContactThrottle
	events      ContactEventPublisher
	notifier    ContactNotifier
	strictReads bool
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewContactService constructs a contact submission service. throttle and
// events may be nil. With strictReads off, store read failures are logged and
// answered as an empty collection or an unknown submission.
func NewContactService(repo repository.ContactRepository, validator *validation.Validator, throttle ContactThrottle, events ContactEventPublisher, notifier ContactNotifier, strictReads bool, logger zerolog.Logger) ContactService {
	if events == nil {
		events = noopContactEventPublisher{}
	}
	return &contactService{
		repo:        repo,
		validator:   validator,
		throttle:    throttle,
		events:      events,
		notifier:    notifier,
		strictReads: strictReads,
		logger:      logger.With().Str("component", "contact_service").Logger(),
		tracer:      otel.Tracer("github.com/accuro-ph/accuro-api/internal/service/contact"),
	}
}

func (s *contactService) Submit(ctx context.Context, req dto.ContactRequest) (models.ContactSubmission, error) {
	ctx, span := s.tracer.Start(ctx, "contact.submit")
	defer span.End()

	if req.Honeypot != "" {
		span.SetStatus(codes.Error, "honeypot tripped")
		observability.ContactSubmissions().WithLabelValues("spam").Inc()
		return models.ContactSubmission{}, ErrContactSpam
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, req.IPAddress)
		if err != nil {
			span.RecordError(err)
			s.logger.Warn().Err(err).Msg("submission throttle unavailable, allowing request")
		}
		if !allowed {
			span.SetStatus(codes.Error, "throttled")
			observability.ContactSubmissions().WithLabelValues("throttled").Inc()
			return models.ContactSubmission{}, ErrContactThrottled
		}
	}

	cleaned, fieldErrors := s.validator.Validate(req)
	if len(fieldErrors) > 0 {
		span.SetStatus(codes.Error, "validation failed")
		observability.ContactSubmissions().WithLabelValues("invalid").Inc()
		return models.ContactSubmission{}, &ValidationError{Fields: fieldErrors}
	}

	stored, err := s.repo.Append(ctx, models.ContactSubmission{
		FirstName:       cleaned.FirstName,
		LastName:        cleaned.LastName,
		Email:           cleaned.Email,
		Phone:           cleaned.Phone,
		Company:         cleaned.Company,
		InquiryType:     cleaned.InquiryType,
		ProductInterest: cleaned.ProductInterest,
		Subject:         cleaned.Subject,
		Message:         cleaned.Message,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.ContactSubmissions().WithLabelValues("error").Inc()
		return models.ContactSubmission{}, fmt.Errorf("store contact submission: %w", err)
	}
	span.SetAttributes(
		attribute.String("contact.id", stored.ID),
		attribute.String("contact.inquiry_type", stored.InquiryType),
	)

	if err := s.events.PublishCreated(ctx, stored); err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).Str("contact_id", stored.ID).Msg("contact event not published")
	}

	if s.notifier != nil {
		s.notifier.Enqueue(stored)
	}

	observability.ContactSubmissions().WithLabelValues("accepted").Inc()
	s.logger.Info().
		Str("contact_id", stored.ID).
		Str("email", maskEmailAddress(stored.Email)).
		Str("phone", maskPhoneNumber(stored.Phone)).
		Str("inquiry_type", stored.InquiryType).
		Msg("contact submission stored")
	span.SetStatus(codes.Ok, "stored")

	return stored, nil
}

func (s *contactService) List(ctx context.Context) ([]models.ContactSubmission, error) {
	ctx, span := s.tracer.Start(ctx, "contact.list")
	defer span.End()

	contacts, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		if degraded := s.readFailure("list", err); degraded {
			return []models.ContactSubmission{}, nil
		}
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}

	span.SetAttributes(attribute.Int("contact.count", len(contacts)))
	return contacts, nil
}

func (s *contactService) Get(ctx context.Context, id string) (models.ContactSubmission, error) {
	ctx, span := s.tracer.Start(ctx, "contact.get", trace.WithAttributes(attribute.String("contact.id", id)))
	defer span.End()

	contact, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		return contact, nil
	case errors.Is(err, repository.ErrContactNotFound):
		return models.ContactSubmission{}, ErrContactNotFound
	}

	span.RecordError(err)
	if degraded := s.readFailure("get", err); degraded {
		return models.ContactSubmission{}, ErrContactNotFound
	}
	span.SetStatus(codes.Error, "get failed")
	return models.ContactSubmission{}, fmt.Errorf("get contact submission: %w", err)
}

// readFailure records a failed store read and reports whether the caller
// should degrade instead of surfacing the error.
func (s *contactService) readFailure(operation string, err error) bool {
	observability.ContactStoreReadFailures().WithLabelValues(operation).Inc()

	if s.strictReads {
		s.logger.Error().Err(err).Str("operation", operation).Msg("contact store read failed")
		return false
	}
	s.logger.Error().Err(err).Str("operation", operation).Msg("contact store read failed, serving degraded response")
	return true
}

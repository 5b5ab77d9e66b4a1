package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/accuro-ph/accuro-api/internal/models"
)

// ErrContactNotFound indicates no submission carries the requested identity.
var ErrContactNotFound = errors.New("contact submission not found")

// ContactRepository is the append-only store of contact form submissions.
type ContactRepository interface {
	// Append assigns identity, timestamps and the initial status, persists the
	// submission and returns the stored record.
	Append(ctx context.Context, submission models.ContactSubmission) (models.ContactSubmission, error)
	// List returns every submission in insertion order.
	List(ctx context.Context) ([]models.ContactSubmission, error)
	// GetByID returns ErrContactNotFound when the identity is unknown.
	GetByID(ctx context.Context, id string) (models.ContactSubmission, error)
}

func newContactID() string {
	return uuid.NewString()
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/accuro-ph/accuro-api/internal/models"
)

type gormContactRepository struct {
	db    *gorm.DB
	now   func() time.Time
	newID func() string
}

// NewGormContactRepository constructs a repository backed by GORM. The
// contact table is created when it does not exist yet.
func NewGormContactRepository(db *gorm.DB) (ContactRepository, error) {
	if err := db.AutoMigrate(&models.ContactSubmission{}); err != nil {
		return nil, fmt.Errorf("prepare contact table: %w", err)
	}
	return &gormContactRepository{db: db, now: time.Now, newID: newContactID}, nil
}

func (r *gormContactRepository) Append(ctx context.Context, submission models.ContactSubmission) (models.ContactSubmission, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	submission.Seq = 0
	submission.ID = r.newID()
	submission.Status = models.ContactStatusNew
	submission.CreatedAt = now
	submission.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return models.ContactSubmission{}, fmt.Errorf("insert contact: %w", err)
	}
	return submission, nil
}

func (r *gormContactRepository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	contacts := []models.ContactSubmission{}
	if err := r.db.WithContext(ctx).Order("seq ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	for i := range contacts {
		normalizeTimestamps(&contacts[i])
	}
	return contacts, nil
}

func (r *gormContactRepository) GetByID(ctx context.Context, id string) (models.ContactSubmission, error) {
	var contact models.ContactSubmission
	err := r.db.WithContext(ctx).Where("public_id = ?", id).First(&contact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ContactSubmission{}, ErrContactNotFound
		}
		return models.ContactSubmission{}, fmt.Errorf("get contact: %w", err)
	}
	normalizeTimestamps(&contact)
	return contact, nil
}

// normalizeTimestamps undoes the session time zone some drivers apply on read.
func normalizeTimestamps(contact *models.ContactSubmission) {
	contact.CreatedAt = contact.CreatedAt.UTC()
	contact.UpdatedAt = contact.UpdatedAt.UTC()
}

package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio/v2"

	"github.com/accuro-ph/accuro-api/internal/models"
)

// fileContactRepository keeps the whole collection in a single JSON array file.
// Appends hold the write lock for the full read-modify-write and replace the
// file through a rename, so a failed write leaves the previous collection intact.
type fileContactRepository struct {
	path  string
	mu    sync.RWMutex
	now   func() time.Time
	newID func() string
}

// NewFileContactRepository constructs a repository backed by the JSON file at
// path, creating the directory and an empty collection when missing.
func NewFileContactRepository(path string) (ContactRepository, error) {
	repo := &fileContactRepository{
		path:  path,
		now:   time.Now,
		newID: newContactID,
	}
	if err := repo.bootstrap(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *fileContactRepository) bootstrap() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(r.path), err)
	}

	_, err := os.Stat(r.path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return r.writeAll([]models.ContactSubmission{})
	default:
		return fmt.Errorf("stat %s: %w", r.path, err)
	}
}

func (r *fileContactRepository) Append(ctx context.Context, submission models.ContactSubmission) (models.ContactSubmission, error) {
	if err := ctx.Err(); err != nil {
		return models.ContactSubmission{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	contacts, err := r.readAll()
	if err != nil {
		return models.ContactSubmission{}, err
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	submission.Seq = 0
	submission.ID = r.uniqueID(contacts)
	submission.Status = models.ContactStatusNew
	submission.CreatedAt = now
	submission.UpdatedAt = now

	contacts = append(contacts, submission)
	if err := r.writeAll(contacts); err != nil {
		return models.ContactSubmission{}, err
	}

	return submission, nil
}

func (r *fileContactRepository) List(ctx context.Context) ([]models.ContactSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.readAll()
}

func (r *fileContactRepository) GetByID(ctx context.Context, id string) (models.ContactSubmission, error) {
	if err := ctx.Err(); err != nil {
		return models.ContactSubmission{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	contacts, err := r.readAll()
	if err != nil {
		return models.ContactSubmission{}, err
	}

	for _, contact := range contacts {
		if contact.ID == id {
			return contact, nil
		}
	}
	return models.ContactSubmission{}, ErrContactNotFound
}

func (r *fileContactRepository) uniqueID(existing []models.ContactSubmission) string {
	seen := make(map[string]struct{}, len(existing))
	for _, contact := range existing {
		seen[contact.ID] = struct{}{}
	}
	for {
		id := r.newID()
		if _, taken := seen[id]; !taken {
			return id
		}
	}
}

// readAll treats a missing or empty file as an empty collection.
func (r *fileContactRepository) readAll() ([]models.ContactSubmission, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.ContactSubmission{}, nil
		}
		return nil, fmt.Errorf("read contacts: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []models.ContactSubmission{}, nil
	}

	contacts := []models.ContactSubmission{}
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return contacts, nil
}

func (r *fileContactRepository) writeAll(contacts []models.ContactSubmission) error {
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}

	if err := renameio.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("replace contacts: %w", err)
	}
	return nil
}

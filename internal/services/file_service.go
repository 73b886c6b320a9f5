// filepath: internal/services/file_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"filedrop/internal/logging"
	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/storage"

	"github.com/oklog/ulid/v2"
)

var _ FileService = (*fileService)(nil)

// fileService handles upload, retrieval and deletion of stored files.
type fileService struct {
	Repo       *repository.Repository
	Datasource storage.Datasource
}

// NewFileService creates a new FileService.
func NewFileService(repo *repository.Repository, datasource storage.Datasource) *fileService {
	return &fileService{
		Repo:       repo,
		Datasource: datasource,
	}
}

// Upload streams the data into the datasource and records the file.
// The ulid id doubles as the object key.
func (s *fileService) Upload(originalName, mimetype string, data io.Reader, userID int64, expiresAt *time.Time) (*models.File, error) {
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	id := ulid.Make().String()
	size, err := s.Datasource.Save(id, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	file := &models.File{
		ID:           id,
		Name:         id,
		OriginalName: originalName,
		MimeType:     mimetype,
		Size:         size,
		UserID:       userID,
		CreatedAt:    time.Now().UTC(),
		ExpiresAt:    expiresAt,
	}

	if err := s.Repo.CreateFile(file); err != nil {
		// Roll back the stored object so the datasource doesn't leak.
		if delErr := s.Datasource.Delete(id); delErr != nil {
			logging.Log.Errorf("Failed to remove orphaned object '%s' after insert error: %v", id, delErr)
		}
		return nil, err
	}

	logging.Log.Infof("Stored file '%s' (%d bytes, %s) for user %d", id, size, mimetype, userID)
	return file, nil
}

// Fetch returns the file record and a reader for its content, bumping
// the view counter.
func (s *fileService) Fetch(id string) (*models.File, io.ReadCloser, error) {
	file, err := s.Repo.GetFile(id)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	r, err := s.Datasource.Open(file.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open object '%s': %w", file.ID, err)
	}

	if err := s.Repo.IncrementFileViews(file.ID); err != nil {
		logging.Log.Warnf("Failed to increment views for '%s': %v", file.ID, err)
	}
	file.Views++

	return file, r, nil
}

// GetFilesByUser lists a user's files.
func (s *fileService) GetFilesByUser(userID int64) ([]models.File, error) {
	return s.Repo.GetFilesByUser(userID)
}

// Delete removes a file record and its object. Non-admins may only
// delete their own files.
func (s *fileService) Delete(id string, userID int64, isAdmin bool) error {
	file, err := s.Repo.GetFile(id)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !isAdmin && file.UserID != userID {
		return ErrForbidden
	}

	if err := s.Repo.DeleteFile(id); err != nil {
		return err
	}
	if err := s.Datasource.Delete(id); err != nil {
		// The record is already gone; log and move on.
		logging.Log.Warnf("Failed to delete object '%s': %v", id, err)
	}
	return nil
}

// SweepExpired deletes all files past their expiry and returns how
// many were removed.
func (s *fileService) SweepExpired() (int, error) {
	expired, err := s.Repo.GetExpiredFiles(time.Now().UTC())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range expired {
		if err := s.Repo.DeleteFile(f.ID); err != nil {
			logging.Log.Errorf("Sweep: failed to delete record '%s': %v", f.ID, err)
			continue
		}
		if err := s.Datasource.Delete(f.ID); err != nil {
			logging.Log.Warnf("Sweep: failed to delete object '%s': %v", f.ID, err)
		}
		removed++
	}
	if removed > 0 {
		logging.Log.Infof("Sweep removed %d expired file(s)", removed)
	}
	return removed, nil
}

// filepath: internal/services/url_service.go
package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"filedrop/internal/logging"
	"filedrop/internal/models"
	"filedrop/internal/repository"

	"github.com/oklog/ulid/v2"
)

var _ URLService = (*urlService)(nil)

// urlService manages short URLs.
type urlService struct {
	Repo *repository.Repository
}

// NewURLService creates a new URLService.
func NewURLService(repo *repository.Repository) *urlService {
	return &urlService{Repo: repo}
}

// randomCode returns a short URL-safe code.
func randomCode() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create validates the destination and records a short URL. When code
// is empty a random one is generated.
func (s *urlService) Create(destination, code string, userID int64) (*models.ShortURL, error) {
	parsed, err := url.Parse(destination)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: destination must be an absolute URL", ErrValidation)
	}

	if code == "" {
		code, err = randomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
	} else {
		// Custom codes must be free. Random codes are long enough that
		// a collision would surface as an insert error anyway.
		if _, err := s.Repo.GetURLByCode(code); err == nil {
			return nil, fmt.Errorf("%w: code %q is already taken", ErrConflict, code)
		} else if !errors.Is(err, repository.ErrURLNotFound) {
			return nil, err
		}
	}

	short := &models.ShortURL{
		ID:          ulid.Make().String(),
		Code:        code,
		Destination: destination,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.CreateURL(short); err != nil {
		return nil, err
	}

	logging.Log.Infof("Created short URL '%s' -> %s for user %d", code, destination, userID)
	return short, nil
}

// Resolve looks up a code and bumps its view counter.
func (s *urlService) Resolve(code string) (*models.ShortURL, error) {
	short, err := s.Repo.GetURLByCode(code)
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.Repo.IncrementURLViews(code); err != nil {
		logging.Log.Warnf("Failed to increment views for url '%s': %v", code, err)
	}
	short.Views++
	return short, nil
}

// GetURLsByUser lists a user's short URLs.
func (s *urlService) GetURLsByUser(userID int64) ([]models.ShortURL, error) {
	return s.Repo.GetURLsByUser(userID)
}

// Delete removes a short URL. Non-admins may only delete their own.
func (s *urlService) Delete(id string, userID int64, isAdmin bool) error {
	urls, err := s.Repo.GetURLsByUser(userID)
	if err != nil {
		return err
	}
	owned := false
	for _, u := range urls {
		if u.ID == id {
			owned = true
			break
		}
	}
	if !owned && !isAdmin {
		return ErrForbidden
	}

	if err := s.Repo.DeleteURL(id); err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// filepath: internal/repository/url_repo.go
package repository

import (
	"database/sql"
	"errors"

	"filedrop/internal/models"

	"github.com/Masterminds/squirrel"
)

// ErrURLNotFound is returned when a short URL lookup matches no row.
var ErrURLNotFound = errors.New("url not found")

var urlColumns = []string{"id", "code", "destination", "views", "user_id", "created_at"}

// CreateURL inserts a short URL record. The caller provides id and code.
func (s *Repository) CreateURL(u *models.ShortURL) error {
	_, err := s.Builder.Insert("urls").
		Columns(urlColumns...).
		Values(u.ID, u.Code, u.Destination, u.Views, u.UserID, u.CreatedAt).
		RunWith(s.DB).
		Exec()
	return err
}

// GetURLByCode retrieves a short URL by its code.
func (s *Repository) GetURLByCode(code string) (*models.ShortURL, error) {
	row := s.Builder.Select(urlColumns...).
		From("urls").
		Where(squirrel.Eq{"code": code}).
		RunWith(s.DB).
		QueryRow()

	var u models.ShortURL
	err := row.Scan(&u.ID, &u.Code, &u.Destination, &u.Views, &u.UserID, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrURLNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetURLsByUser retrieves all short URLs owned by a user, newest first.
func (s *Repository) GetURLsByUser(userID int64) ([]models.ShortURL, error) {
	rows, err := s.Builder.Select(urlColumns...).
		From("urls").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		RunWith(s.DB).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make([]models.ShortURL, 0)
	for rows.Next() {
		var u models.ShortURL
		if err := rows.Scan(&u.ID, &u.Code, &u.Destination, &u.Views, &u.UserID, &u.CreatedAt); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// IncrementURLViews bumps the view counter for a short URL.
func (s *Repository) IncrementURLViews(code string) error {
	_, err := s.Builder.Update("urls").
		Set("views", squirrel.Expr("views + 1")).
		Where(squirrel.Eq{"code": code}).
		RunWith(s.DB).
		Exec()
	return err
}

// DeleteURL removes a short URL record.
func (s *Repository) DeleteURL(id string) error {
	res, err := s.Builder.Delete("urls").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.DB).
		Exec()
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrURLNotFound
	}
	return nil
}

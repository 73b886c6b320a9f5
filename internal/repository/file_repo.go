// filepath: internal/repository/file_repo.go
package repository

import (
	"database/sql"
	"errors"
	"time"

	"filedrop/internal/logging"
	"filedrop/internal/models"

	"github.com/Masterminds/squirrel"
)

// ErrFileNotFound is returned when a file lookup matches no row.
var ErrFileNotFound = errors.New("file not found")

func scanFile(row squirrel.RowScanner) (*models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.Name, &f.OriginalName, &f.MimeType, &f.Size,
		&f.Views, &f.UserID, &f.CreatedAt, &f.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &f, nil
}

var fileColumns = []string{"id", "name", "original_name", "mimetype", "size",
	"views", "user_id", "created_at", "expires_at"}

// CreateFile inserts a file record. The caller provides the id.
func (s *Repository) CreateFile(f *models.File) error {
	_, err := s.Builder.Insert("files").
		Columns(fileColumns...).
		Values(f.ID, f.Name, f.OriginalName, f.MimeType, f.Size,
			f.Views, f.UserID, f.CreatedAt, f.ExpiresAt).
		RunWith(s.DB).
		Exec()
	if err != nil {
		logging.Log.Errorf("CreateFile: insert failed for '%s': %v", f.ID, err)
	}
	return err
}

// GetFile retrieves a single file by id.
func (s *Repository) GetFile(id string) (*models.File, error) {
	row := s.Builder.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.DB).
		QueryRow()
	return scanFile(row)
}

// GetFilesByUser retrieves all files owned by a user, newest first.
func (s *Repository) GetFilesByUser(userID int64) ([]models.File, error) {
	rows, err := s.Builder.Select(fileColumns...).
		From("files").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		RunWith(s.DB).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

// GetExpiredFiles returns files whose expiry is at or before now.
func (s *Repository) GetExpiredFiles(now time.Time) ([]models.File, error) {
	rows, err := s.Builder.Select(fileColumns...).
		From("files").
		Where(squirrel.And{
			squirrel.NotEq{"expires_at": nil},
			squirrel.LtOrEq{"expires_at": now},
		}).
		RunWith(s.DB).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFiles(rows)
}

func collectFiles(rows *sql.Rows) ([]models.File, error) {
	files := make([]models.File, 0)
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.Name, &f.OriginalName, &f.MimeType, &f.Size,
			&f.Views, &f.UserID, &f.CreatedAt, &f.ExpiresAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// IncrementFileViews bumps the view counter for a file.
func (s *Repository) IncrementFileViews(id string) error {
	_, err := s.Builder.Update("files").
		Set("views", squirrel.Expr("views + 1")).
		Where(squirrel.Eq{"id": id}).
		RunWith(s.DB).
		Exec()
	return err
}

// DeleteFile removes a file record.
func (s *Repository) DeleteFile(id string) error {
	res, err := s.Builder.Delete("files").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.DB).
		Exec()
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFileNotFound
	}
	return nil
}

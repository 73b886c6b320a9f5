// filepath: internal/repository/stats_repo.go
package repository

import (
	"context"

	"filedrop/internal/models"
)

// The aggregate queries below back the usage report. Each one is a
// separate query on purpose: the report tolerates small cross-query
// drift under concurrent writes instead of requiring a transactional
// snapshot.

// CountFiles returns the total number of stored files.
func (s *Repository) CountFiles(ctx context.Context) (int64, error) {
	var n int64
	err := s.Builder.Select("COUNT(*)").
		From("files").
		RunWith(s.DB).
		QueryRowContext(ctx).
		Scan(&n)
	return n, err
}

// CountUsers returns the total number of users, whether or not they
// own any files.
func (s *Repository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.Builder.Select("COUNT(*)").
		From("users").
		RunWith(s.DB).
		QueryRowContext(ctx).
		Scan(&n)
	return n, err
}

// SumFileViews returns the total view count across all files. An
// empty files table sums to zero, not NULL.
func (s *Repository) SumFileViews(ctx context.Context) (int64, error) {
	var n int64
	err := s.Builder.Select("COALESCE(SUM(views), 0)").
		From("files").
		RunWith(s.DB).
		QueryRowContext(ctx).
		Scan(&n)
	return n, err
}

// CountFilesByUser groups files by owner, most files first. Owners are
// returned as raw user ids; name resolution is up to the caller.
func (s *Repository) CountFilesByUser(ctx context.Context) ([]models.OwnerCount, error) {
	rows, err := s.Builder.Select("user_id", "COUNT(*) AS n").
		From("files").
		GroupBy("user_id").
		OrderBy("n DESC").
		RunWith(s.DB).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.OwnerCount, 0)
	for rows.Next() {
		var c models.OwnerCount
		if err := rows.Scan(&c.UserID, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountFilesByType groups files by declared content type, most files
// first.
func (s *Repository) CountFilesByType(ctx context.Context) ([]models.TypeCount, error) {
	rows, err := s.Builder.Select("mimetype", "COUNT(*) AS n").
		From("files").
		GroupBy("mimetype").
		OrderBy("n DESC").
		RunWith(s.DB).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.TypeCount, 0)
	for rows.Next() {
		var c models.TypeCount
		if err := rows.Scan(&c.MimeType, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

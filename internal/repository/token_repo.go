// filepath: internal/repository/token_repo.go
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// StoreRefreshToken saves the hash of a refresh token to the database.
func (s *Repository) StoreRefreshToken(userID int64, tokenHash string, expiry time.Time) error {
	_, err := s.Builder.Insert("refresh_tokens").
		Columns("token_hash", "user_id", "expires_at").
		Values(tokenHash, userID, expiry).
		RunWith(s.DB).
		Exec()
	return err
}

// ValidateRefreshToken checks if a token hash exists and is not expired, returning the user ID.
func (s *Repository) ValidateRefreshToken(tokenHash string) (int64, error) {
	var userID int64
	err := s.Builder.Select("user_id").
		From("refresh_tokens").
		Where(squirrel.And{
			squirrel.Eq{"token_hash": tokenHash},
			squirrel.Gt{"expires_at": time.Now()},
		}).
		RunWith(s.DB).
		QueryRow().
		Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("token not found or expired")
		}
		return 0, err
	}
	return userID, nil
}

// DeleteRefreshToken removes a specific refresh token hash from the database.
func (s *Repository) DeleteRefreshToken(tokenHash string) error {
	_, err := s.Builder.Delete("refresh_tokens").
		Where(squirrel.Eq{"token_hash": tokenHash}).
		RunWith(s.DB).
		Exec()
	return err
}

// DeleteAllRefreshTokensForUser revokes all sessions for a specific user.
func (s *Repository) DeleteAllRefreshTokensForUser(userID int64) error {
	_, err := s.Builder.Delete("refresh_tokens").
		Where(squirrel.Eq{"user_id": userID}).
		RunWith(s.DB).
		Exec()
	return err
}

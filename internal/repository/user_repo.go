// filepath: internal/repository/user_repo.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"filedrop/internal/logging"
	"filedrop/internal/models"

	"github.com/Masterminds/squirrel"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrUserExists is returned when trying to create a user that already exists.
var ErrUserExists = errors.New("user already exists")

// UserCreateArgs is a struct used for creating users in the database layer.
// It is separate from models.User to include the plaintext password for creation.
type UserCreateArgs struct {
	Username string
	Password string
	IsAdmin  bool
}

func scanUser(row squirrel.RowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username, using a cache for performance.
func (s *Repository) GetUserByUsername(username string) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_name_%s", username)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	logging.Log.Debugf("GetUserByUsername: cache miss for '%s', querying DB", username)
	row := s.Builder.Select("id", "username", "password_hash", "is_admin", "created_at").
		From("users").
		Where(squirrel.Eq{"username": username}).
		RunWith(s.DB).
		QueryRow()

	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	s.cacheUser(user)
	return user, nil
}

// GetUserByID retrieves a user by id, using a cache for performance.
// The statistics aggregation resolves owners one at a time through
// this method, so the cache absorbs repeated lookups.
func (s *Repository) GetUserByID(id int64) (*models.User, error) {
	cacheKey := fmt.Sprintf("user_by_id_%d", id)
	if user, found := s.Cache.Get(cacheKey); found {
		return user.(*models.User), nil
	}

	row := s.Builder.Select("id", "username", "password_hash", "is_admin", "created_at").
		From("users").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.DB).
		QueryRow()

	user, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	s.cacheUser(user)
	return user, nil
}

func (s *Repository) cacheUser(user *models.User) {
	s.Cache.Set(fmt.Sprintf("user_by_name_%s", user.Username), user, 5*time.Minute)
	s.Cache.Set(fmt.Sprintf("user_by_id_%d", user.ID), user, 5*time.Minute)
}

func (s *Repository) invalidateUser(user *models.User) {
	s.Cache.Delete(fmt.Sprintf("user_by_name_%s", user.Username))
	s.Cache.Delete(fmt.Sprintf("user_by_id_%d", user.ID))
}

// UserExists checks if a user with the given username exists.
func (s *Repository) UserExists(username string) (bool, error) {
	_, err := s.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateUser hashes the password and inserts the user.
func (s *Repository) CreateUser(args *UserCreateArgs) (*models.User, error) {
	exists, err := s.UserExists(args.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(args.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     args.Username,
		PasswordHash: string(hash),
		IsAdmin:      args.IsAdmin,
		CreatedAt:    time.Now().UTC(),
	}

	insert := s.Builder.Insert("users").
		Columns("username", "password_hash", "is_admin", "created_at").
		Values(user.Username, user.PasswordHash, user.IsAdmin, user.CreatedAt)

	if s.driver == "postgres" {
		err = insert.Suffix("RETURNING id").RunWith(s.DB).QueryRow().Scan(&user.ID)
		if err != nil {
			return nil, err
		}
	} else {
		res, err := insert.RunWith(s.DB).Exec()
		if err != nil {
			return nil, err
		}
		user.ID, err = res.LastInsertId()
		if err != nil {
			return nil, err
		}
	}

	logging.Log.Infof("Created user '%s' (ID: %d)", user.Username, user.ID)
	return user, nil
}

// GetUsers retrieves all users.
func (s *Repository) GetUsers() ([]models.User, error) {
	rows, err := s.Builder.Select("id", "username", "password_hash", "is_admin", "created_at").
		From("users").
		OrderBy("id").
		RunWith(s.DB).
		Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUserPassword replaces the stored hash for a user.
func (s *Repository) UpdateUserPassword(username, password string) error {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.Builder.Update("users").
		Set("password_hash", string(hash)).
		Where(squirrel.Eq{"username": username}).
		RunWith(s.DB).
		Exec()
	if err != nil {
		return err
	}

	s.invalidateUser(user)
	return nil
}

// DeleteUser removes a user. Owned files and urls cascade in the store.
func (s *Repository) DeleteUser(id int64) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	_, err = s.Builder.Delete("users").
		Where(squirrel.Eq{"id": id}).
		RunWith(s.DB).
		Exec()
	if err != nil {
		return err
	}

	s.invalidateUser(user)
	return nil
}

// filepath: internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"filedrop/internal/config"
	"filedrop/internal/logging"
	"filedrop/internal/models"
	"filedrop/internal/repository"
)

var _ UserService = (*userService)(nil)

// userService handles business logic for user management.
type userService struct {
	Repo *repository.Repository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository) *userService {
	return &userService{Repo: repo}
}

func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	return s.Repo.GetUserByUsername(username)
}

func (s *userService) GetUserByID(id int64) (*models.User, error) {
	return s.Repo.GetUserByID(id)
}

func (s *userService) GetUsers() ([]models.User, error) {
	return s.Repo.GetUsers()
}

func (s *userService) UpdateUserPassword(username, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", ErrValidation)
	}
	return s.Repo.UpdateUserPassword(username, password)
}

func (s *userService) CreateUser(args repository.UserCreateArgs) (*models.User, error) {
	if args.Username == "" || args.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	user, err := s.Repo.CreateUser(&args)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, args.Username)
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(id int64) error {
	err := s.Repo.DeleteUser(id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrNotFound
	}
	return err
}

// InitializeAdminUser ensures the 'admin' account exists, creating it
// from the configured password or resetting it when requested.
func (s *userService) InitializeAdminUser(cfg *config.Config) error {
	exists, err := s.Repo.UserExists("admin")
	if err != nil {
		return err
	}

	if !exists {
		if cfg.AdminPassword == "" {
			return fmt.Errorf("no admin user exists and no admin password configured")
		}
		_, err := s.Repo.CreateUser(&repository.UserCreateArgs{
			Username: "admin",
			Password: cfg.AdminPassword,
			IsAdmin:  true,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logging.Log.Info("Created initial admin user")
		return nil
	}

	if cfg.ResetAdminPassword {
		if cfg.AdminPassword == "" {
			return fmt.Errorf("admin password reset requested but no password configured")
		}
		if err := s.Repo.UpdateUserPassword("admin", cfg.AdminPassword); err != nil {
			return fmt.Errorf("failed to reset admin password: %w", err)
		}
		logging.Log.Info("Admin password reset")
	}
	return nil
}

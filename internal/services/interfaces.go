// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"io"
	"time"

	"filedrop/internal/config"
	"filedrop/internal/models"
	"filedrop/internal/repository"
)

// Auditor defines the interface for recording security-relevant events.
type Auditor interface {
	// Log records an event.
	// action: what happened (e.g., "user.create", "file.delete")
	// actor: who did it (username)
	// resource: what was affected (e.g., "File:01H...", "user bob")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() models.Info
}

// StatsService computes usage reports over the store and datasource.
type StatsService interface {
	ComputeUsageReport(ctx context.Context) (*models.UsageReport, error)
}

// UserService defines the interface for the user service.
type UserService interface {
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	GetUsers() ([]models.User, error)
	UpdateUserPassword(username, password string) error
	CreateUser(args repository.UserCreateArgs) (*models.User, error)
	DeleteUser(id int64) error
	InitializeAdminUser(cfg *config.Config) error
}

// FileService defines the interface for the file service.
type FileService interface {
	Upload(originalName, mimetype string, data io.Reader, userID int64, expiresAt *time.Time) (*models.File, error)
	Fetch(id string) (*models.File, io.ReadCloser, error)
	GetFilesByUser(userID int64) ([]models.File, error)
	Delete(id string, userID int64, isAdmin bool) error
	SweepExpired() (int, error)
}

// URLService defines the interface for the short URL service.
type URLService interface {
	Create(destination, code string, userID int64) (*models.ShortURL, error)
	Resolve(code string) (*models.ShortURL, error)
	GetURLsByUser(userID int64) ([]models.ShortURL, error)
	Delete(id string, userID int64, isAdmin bool) error
}

// SweeperService runs the background file expiry sweep.
type SweeperService interface {
	Start()
	Stop()
}

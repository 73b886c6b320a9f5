// filepath: internal/models/models.go
// Package models contains the core data structures for the application.
package models

import "time"

// User is an account that owns files and short URLs.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// File is a stored object. The ID doubles as the object key in the
// datasource.
type File struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	OriginalName string     `json:"original_name"`
	MimeType     string     `json:"mimetype"`
	Size         int64      `json:"size"`
	Views        int64      `json:"views"`
	UserID       int64      `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// ShortURL is a redirect entry.
type ShortURL struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Destination string    `json:"destination"`
	Views       int64     `json:"views"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserCount is one row of the per-user file count breakdown.
type UserCount struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// TypeCount is one row of the per-content-type breakdown.
type TypeCount struct {
	MimeType string `json:"mimetype"`
	Count    int64  `json:"count"`
}

// OwnerCount is the raw per-owner grouping before usernames are
// resolved.
type OwnerCount struct {
	UserID int64
	Count  int64
}

// UsageReport is a point-in-time usage snapshot. It carries no
// identity beyond the moment it was computed and is never persisted.
type UsageReport struct {
	Size        string      `json:"size"`     // humanized
	SizeNum     int64       `json:"size_num"` // raw bytes
	Count       int64       `json:"count"`
	CountUsers  int64       `json:"count_users"`
	ViewsCount  int64       `json:"views_count"`
	CountByUser []UserCount `json:"count_by_user"`
	TypesCount  []TypeCount `json:"types_count"`
}

// Info represents general information about the service.
type Info struct {
	ServiceName string    `json:"service_name"`
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
}

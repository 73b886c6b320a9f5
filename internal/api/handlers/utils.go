// filepath: internal/api/handlers/utils.go
package handlers

import (
	"net/http"
	"time"

	"filedrop/internal/models"
	"filedrop/internal/services/auth"
)

// userFromRequest returns the authenticated user attached by the auth
// middleware, or nil for unauthenticated routes.
func userFromRequest(r *http.Request) *models.User {
	return auth.UserFromContext(r.Context())
}

// actorName returns the username for audit logging, or "anonymous".
func actorName(r *http.Request) string {
	if user := userFromRequest(r); user != nil {
		return user.Username
	}
	return "anonymous"
}

// parseExpiry parses an optional expiry duration (e.g. "24h", "30m")
// into an absolute timestamp. An empty value means no expiry.
func parseExpiry(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, err
	}
	t := time.Now().UTC().Add(d)
	return &t, nil
}

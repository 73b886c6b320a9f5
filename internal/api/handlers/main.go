// filepath: internal/api/handlers/main.go
package handlers

import (
	"filedrop/internal/config"
	"filedrop/internal/services"
	"filedrop/internal/services/auth"
)

// Handlers provides a struct to hold shared dependencies for API handlers.
type Handlers struct {
	// Depend on interfaces, not concrete structs.
	Info  services.InfoService
	User  services.UserService
	File  services.FileService
	URL   services.URLService
	Stats services.StatsService
	Token auth.TokenService

	Auditor services.Auditor
	Cfg     *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	user services.UserService,
	file services.FileService,
	url services.URLService,
	stats services.StatsService,
	token auth.TokenService,
	auditor services.Auditor,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:    info,
		User:    user,
		File:    file,
		URL:     url,
		Stats:   stats,
		Token:   token,
		Auditor: auditor,
		Cfg:     cfg,
	}
}

// filepath: internal/httpserver/router.go
package httpserver

import (
	"filedrop/internal/api/handlers"
	"filedrop/internal/services/auth"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router and its sub-routers.
// It sets up the public endpoints, the authenticated API, and the
// admin-only API.
func SetupRouter(h *handlers.Handlers, am *auth.Middleware) *mux.Router {
	r := mux.NewRouter()

	// Public Endpoints
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Public download and redirect endpoints; every hit counts as a view.
	r.HandleFunc("/f/{id}", h.DownloadFile).Methods("GET")
	r.HandleFunc("/u/{code}", h.RedirectURL).Methods("GET")

	// Public Token Endpoints (not protected by the auth middleware)
	r.HandleFunc("/api/token", h.GetToken).Methods("POST")
	r.HandleFunc("/api/token/refresh", h.RefreshToken).Methods("POST")

	// Authenticated API Routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(am.Authenticate)

	apiRouter.HandleFunc("/logout", h.Logout).Methods("POST")

	addFileRoutes(apiRouter, h)
	addURLRoutes(apiRouter, h)
	addUserRoutes(apiRouter, h)
	addAdminRoutes(apiRouter, h, am)

	return r
}

// addFileRoutes configures routes for uploading and managing files.
func addFileRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/upload", h.UploadFile).Methods("POST")
	r.HandleFunc("/files", h.GetMyFiles).Methods("GET")
	r.HandleFunc("/files/{id}", h.DeleteFile).Methods("DELETE")
}

// addURLRoutes configures routes for creating and managing short URLs.
func addURLRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/urls", h.CreateURL).Methods("POST")
	r.HandleFunc("/urls", h.GetMyURLs).Methods("GET")
	r.HandleFunc("/urls/{id}", h.DeleteURL).Methods("DELETE")
}

// addUserRoutes configures routes for users managing their own account.
func addUserRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/me", h.GetUserMe).Methods("GET")
	r.HandleFunc("/me", h.UpdateUserMe).Methods("PATCH")
}

// addAdminRoutes configures routes for administrative actions.
func addAdminRoutes(r *mux.Router, h *handlers.Handlers, am *auth.Middleware) {
	adminRouter := r.PathPrefix("").Subrouter()
	adminRouter.Use(am.RequireAdmin)
	adminRouter.HandleFunc("/users", h.GetUsers).Methods("GET")
	adminRouter.HandleFunc("/users", h.CreateUser).Methods("POST")
	adminRouter.HandleFunc("/users/{id}", h.DeleteUser).Methods("DELETE")
	adminRouter.HandleFunc("/stats", h.GetStats).Methods("GET")
}

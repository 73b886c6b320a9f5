// filepath: internal/api/handlers/url_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"filedrop/internal/logging"
	"filedrop/internal/metrics"
	"filedrop/internal/services"

	"github.com/gorilla/mux"
)

// createURLRequest is the JSON body for creating a short URL.
type createURLRequest struct {
	Destination string `json:"destination"`
	Code        string `json:"code,omitempty"`
}

// @Summary Create a short URL
// @Description Creates a short URL pointing at an absolute destination URL. A custom code may be supplied; otherwise one is generated.
// @Tags URLs
// @Accept json
// @Produce json
// @Param   url  body  createURLRequest  true  "Destination and optional code"
// @Success 201 {object} models.ShortURL
// @Failure 400 {object} ErrorResponse "Invalid destination"
// @Failure 409 {object} ErrorResponse "Code already taken"
// @Security BearerAuth
// @Router /urls [post]
func (h *Handlers) CreateURL(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}

	var req createURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	short, err := h.URL.Create(req.Destination, req.Code, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrConflict):
			respondWithError(w, http.StatusConflict, "Code already taken.")
		default:
			logging.Log.Errorf("CreateURL: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create short URL.")
		}
		return
	}

	h.Auditor.Log(r.Context(), "url.create", user.Username, "url "+short.ID, map[string]interface{}{
		"code":        short.Code,
		"destination": short.Destination,
	})

	respondWithJSON(w, http.StatusCreated, short)
}

// @Summary Resolve a short URL
// @Description Redirects to the destination of a short URL. This is a public endpoint; every hit counts as a view.
// @Tags URLs
// @Param   code  path  string  true  "Short code"
// @Success 302 {string} string "Redirect to destination"
// @Failure 404 {object} ErrorResponse "Unknown code"
// @Router /u/{code} [get]
func (h *Handlers) RedirectURL(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	short, err := h.URL.Resolve(code)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Unknown short URL.")
			return
		}
		logging.Log.Errorf("RedirectURL: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to resolve short URL.")
		return
	}

	metrics.URLRedirectsTotal.Inc()
	http.Redirect(w, r, short.Destination, http.StatusFound)
}

// @Summary List own short URLs
// @Description Lists all short URLs owned by the authenticated user.
// @Tags URLs
// @Produce json
// @Success 200 {array} models.ShortURL
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /urls [get]
func (h *Handlers) GetMyURLs(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}

	urls, err := h.URL.GetURLsByUser(user.ID)
	if err != nil {
		logging.Log.Errorf("GetMyURLs: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list short URLs.")
		return
	}

	respondWithJSON(w, http.StatusOK, urls)
}

// @Summary Delete a short URL
// @Description Deletes a short URL. Users may delete their own; admins may delete any.
// @Tags URLs
// @Produce json
// @Param   id  path  string  true  "Short URL ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "Unknown short URL"
// @Security BearerAuth
// @Router /urls/{id} [delete]
func (h *Handlers) DeleteURL(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}
	id := mux.Vars(r)["id"]

	err := h.URL.Delete(id, user.ID, user.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Unknown short URL.")
		case errors.Is(err, services.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "You do not own this short URL.")
		default:
			logging.Log.Errorf("DeleteURL: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete short URL.")
		}
		return
	}

	h.Auditor.Log(r.Context(), "url.delete", user.Username, "url "+id, nil)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Short URL deleted."})
}

// filepath: internal/api/handlers/file_handler.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"filedrop/internal/logging"
	"filedrop/internal/metrics"
	"filedrop/internal/services"

	"github.com/gorilla/mux"
)

// @Summary Upload a file
// @Description Uploads a file using multipart/form-data. The optional 'expires_in' form value (a Go duration such as "24h") makes the file expire.
// @Tags Files
// @Accept  mpfd
// @Produce  json
// @Param   file        formData  file    true   "File content"
// @Param   expires_in  formData  string  false  "Expiry duration (e.g. 24h, 30m)"
// @Success 201 {object} models.File
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /upload [post]
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSizeBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		logging.Log.Warnf("Failed to parse multipart form: %v", err)
		respondWithError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit or is malformed.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' part in multipart form.")
		return
	}
	defer file.Close()

	expiresAt, err := parseExpiry(r.FormValue("expires_in"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'expires_in' duration.")
		return
	}

	mimetype := header.Header.Get("Content-Type")
	stored, err := h.File.Upload(header.Filename, mimetype, file, user.ID, expiresAt)
	if err != nil {
		logging.Log.Errorf("UploadFile: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to store file.")
		return
	}

	metrics.UploadsTotal.Inc()
	h.Auditor.Log(r.Context(), "file.upload", user.Username, "file "+stored.ID, map[string]interface{}{
		"filename": header.Filename,
		"size":     stored.Size,
	})

	respondWithJSON(w, http.StatusCreated, stored)
}

// @Summary Download a file
// @Description Serves a stored file by its id. This is a public endpoint; every hit counts as a view.
// @Tags Files
// @Produce octet-stream
// @Param   id  path  string  true  "File ID"
// @Success 200 {file} file "The raw file data"
// @Failure 404 {object} ErrorResponse "File not found"
// @Router /f/{id} [get]
func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	file, content, err := h.File.Fetch(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "File not found.")
			return
		}
		logging.Log.Errorf("DownloadFile: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}
	defer content.Close()

	metrics.DownloadsTotal.Inc()

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", file.Size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.OriginalName))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content); err != nil {
		logging.Log.Warnf("DownloadFile: streaming '%s' aborted: %v", id, err)
	}
}

// @Summary List own files
// @Description Lists all files owned by the authenticated user.
// @Tags Files
// @Produce json
// @Success 200 {array} models.File
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /files [get]
func (h *Handlers) GetMyFiles(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}

	files, err := h.File.GetFilesByUser(user.ID)
	if err != nil {
		logging.Log.Errorf("GetMyFiles: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list files.")
		return
	}

	respondWithJSON(w, http.StatusOK, files)
}

// @Summary Delete a file
// @Description Deletes a file. Users may delete their own files; admins may delete any.
// @Tags Files
// @Produce json
// @Param   id  path  string  true  "File ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} ErrorResponse "Not the owner"
// @Failure 404 {object} ErrorResponse "File not found"
// @Security BearerAuth
// @Router /files/{id} [delete]
func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}
	id := mux.Vars(r)["id"]

	err := h.File.Delete(id, user.ID, user.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "File not found.")
		case errors.Is(err, services.ErrForbidden):
			respondWithError(w, http.StatusForbidden, "You do not own this file.")
		default:
			logging.Log.Errorf("DeleteFile: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete file.")
		}
		return
	}

	h.Auditor.Log(r.Context(), "file.delete", user.Username, "file "+id, nil)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "File deleted."})
}

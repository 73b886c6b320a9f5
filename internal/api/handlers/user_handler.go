// filepath: internal/api/handlers/user_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"filedrop/internal/logging"
	"filedrop/internal/repository"
	"filedrop/internal/services"

	"github.com/gorilla/mux"
)

// PasswordUpdateRequest is a DTO for updating a user's password.
type PasswordUpdateRequest struct {
	Password string `json:"password"`
}

// CreateUserRequest is a DTO for creating a new user.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// @Summary Get current user
// @Description Get the currently authenticated user's details.
// @Tags Users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *Handlers) GetUserMe(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}

	// Copy so the cached user object is never mutated.
	safeUser := *user
	safeUser.PasswordHash = ""

	respondWithJSON(w, http.StatusOK, safeUser)
}

// @Summary Update current user's password
// @Description Allows a user to change their own password.
// @Tags Users
// @Accept json
// @Produce json
// @Param password body PasswordUpdateRequest true "Password update request"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [patch]
func (h *Handlers) UpdateUserMe(w http.ResponseWriter, r *http.Request) {
	user := userFromRequest(r)
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "No user found in context")
		return
	}

	var req PasswordUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Password cannot be empty")
		return
	}

	if err := h.User.UpdateUserPassword(user.Username, req.Password); err != nil {
		logging.Log.Errorf("UpdateUserMe: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	h.Auditor.Log(r.Context(), "user.password_change", user.Username, "user "+user.Username, nil)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully."})
}

// @Summary List users
// @Description Lists all user accounts. Admin only.
// @Tags Users
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *Handlers) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.User.GetUsers()
	if err != nil {
		logging.Log.Errorf("GetUsers: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	respondWithJSON(w, http.StatusOK, users)
}

// @Summary Create a user
// @Description Creates a new user account. Admin only.
// @Tags Users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "New user"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username already taken"
// @Security BearerAuth
// @Router /users [post]
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.User.CreateUser(repository.UserCreateArgs{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrConflict):
			respondWithError(w, http.StatusConflict, "Username already taken")
		case errors.Is(err, services.ErrValidation):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			logging.Log.Errorf("CreateUser: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	h.Auditor.Log(r.Context(), "user.create", actorName(r), "user "+user.Username, map[string]interface{}{
		"is_admin": user.IsAdmin,
	})

	safeUser := *user
	safeUser.PasswordHash = ""
	respondWithJSON(w, http.StatusCreated, safeUser)
}

// @Summary Delete a user
// @Description Deletes a user account by id. Admin only.
// @Tags Users
// @Produce json
// @Param   id  path  int  true  "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.User.DeleteUser(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		logging.Log.Errorf("DeleteUser: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	h.Auditor.Log(r.Context(), "user.delete", actorName(r), "user "+strconv.FormatInt(id, 10), nil)
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "User deleted."})
}

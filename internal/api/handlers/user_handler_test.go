// filepath: internal/api/handlers/user_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"filedrop/internal/models"
	"filedrop/internal/repository"
	"filedrop/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestGetUserMe_StripsPasswordHash(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice", PasswordHash: "secret-hash"}

	h := &Handlers{}

	req, _ := http.NewRequest("GET", "/api/me", nil)
	req = req.WithContext(withUser(req.Context(), user))
	rr := httptest.NewRecorder()

	h.GetUserMe(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret-hash")
	// The context copy must not be mutated.
	assert.Equal(t, "secret-hash", user.PasswordHash)
}

func TestUpdateUserMe(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice"}

	userService := new(MockUserService)
	userService.On("UpdateUserPassword", "alice", "newpass").Return(nil)

	h := &Handlers{User: userService, Auditor: NoopAuditor{}}

	body, _ := json.Marshal(PasswordUpdateRequest{Password: "newpass"})
	req, _ := http.NewRequest("PATCH", "/api/me", bytes.NewReader(body))
	req = req.WithContext(withUser(req.Context(), user))
	rr := httptest.NewRecorder()

	h.UpdateUserMe(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	userService.AssertExpectations(t)
}

func TestUpdateUserMe_EmptyPassword(t *testing.T) {
	h := &Handlers{User: new(MockUserService), Auditor: NoopAuditor{}}

	body, _ := json.Marshal(PasswordUpdateRequest{Password: ""})
	req, _ := http.NewRequest("PATCH", "/api/me", bytes.NewReader(body))
	req = req.WithContext(withUser(req.Context(), testUser()))
	rr := httptest.NewRecorder()

	h.UpdateUserMe(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateUser(t *testing.T) {
	created := &models.User{ID: 2, Username: "bob"}

	userService := new(MockUserService)
	userService.On("CreateUser", repository.UserCreateArgs{
		Username: "bob",
		Password: "pw",
	}).Return(created, nil)

	h := &Handlers{User: userService, Auditor: NoopAuditor{}}

	body, _ := json.Marshal(CreateUserRequest{Username: "bob", Password: "pw"})
	req, _ := http.NewRequest("POST", "/api/users", bytes.NewReader(body))
	req = req.WithContext(withUser(req.Context(), testUser()))
	rr := httptest.NewRecorder()

	h.CreateUser(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var response models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "bob", response.Username)
}

func TestCreateUser_Duplicate(t *testing.T) {
	userService := new(MockUserService)
	userService.On("CreateUser", repository.UserCreateArgs{
		Username: "bob",
		Password: "pw",
	}).Return(nil, services.ErrConflict)

	h := &Handlers{User: userService, Auditor: NoopAuditor{}}

	body, _ := json.Marshal(CreateUserRequest{Username: "bob", Password: "pw"})
	req, _ := http.NewRequest("POST", "/api/users", bytes.NewReader(body))
	req = req.WithContext(withUser(req.Context(), testUser()))
	rr := httptest.NewRecorder()

	h.CreateUser(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteUser(t *testing.T) {
	userService := new(MockUserService)
	userService.On("DeleteUser", int64(2)).Return(nil)

	h := &Handlers{User: userService, Auditor: NoopAuditor{}}

	req, _ := http.NewRequest("DELETE", "/api/users/2", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "2"})
	req = req.WithContext(withUser(req.Context(), testUser()))
	rr := httptest.NewRecorder()

	h.DeleteUser(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	userService.AssertExpectations(t)
}

// filepath: internal/api/handlers/token_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"filedrop/internal/models"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func userWithPassword(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &models.User{ID: 1, Username: "alice", PasswordHash: string(hash)}
}

func TestGetToken(t *testing.T) {
	user := userWithPassword(t, "password")

	userService := new(MockUserService)
	userService.On("GetUserByUsername", "alice").Return(user, nil)

	tokenService := new(MockTokenService)
	tokenService.On("GenerateTokens", user).Return("access-token", "refresh-token", nil)

	h := &Handlers{User: userService, Token: tokenService, Auditor: NoopAuditor{}}

	req, _ := http.NewRequest("POST", "/api/token", nil)
	req.SetBasicAuth("alice", "password")
	rr := httptest.NewRecorder()

	h.GetToken(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var response tokenResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "access-token", response.AccessToken)
	assert.Equal(t, "refresh-token", response.RefreshToken)
}

func TestGetToken_WrongPassword(t *testing.T) {
	user := userWithPassword(t, "password")

	userService := new(MockUserService)
	userService.On("GetUserByUsername", "alice").Return(user, nil)

	h := &Handlers{User: userService, Token: new(MockTokenService), Auditor: NoopAuditor{}}

	req, _ := http.NewRequest("POST", "/api/token", nil)
	req.SetBasicAuth("alice", "wrong")
	rr := httptest.NewRecorder()

	h.GetToken(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetToken_UnknownUserIsOpaque(t *testing.T) {
	userService := new(MockUserService)
	userService.On("GetUserByUsername", "ghost").Return(nil, errors.New("not found"))

	h := &Handlers{User: userService, Token: new(MockTokenService), Auditor: NoopAuditor{}}

	req, _ := http.NewRequest("POST", "/api/token", nil)
	req.SetBasicAuth("ghost", "whatever")
	rr := httptest.NewRecorder()

	h.GetToken(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	// The message must not reveal whether the account exists.
	assert.NotContains(t, rr.Body.String(), "ghost")
}

func TestRefreshToken_Rotation(t *testing.T) {
	user := &models.User{ID: 1, Username: "alice"}

	tokenService := new(MockTokenService)
	tokenService.On("ValidateRefreshToken", "old-refresh").Return(user, nil)
	tokenService.On("Logout", "old-refresh").Return(nil)
	tokenService.On("GenerateTokens", user).Return("new-access", "new-refresh", nil)

	h := &Handlers{Token: tokenService}

	body, _ := json.Marshal(tokenRequest{RefreshToken: "old-refresh"})
	req, _ := http.NewRequest("POST", "/api/token/refresh", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.RefreshToken(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var response tokenResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "new-access", response.AccessToken)
	assert.Equal(t, "new-refresh", response.RefreshToken)
	tokenService.AssertExpectations(t)
}

func TestRefreshToken_Invalid(t *testing.T) {
	tokenService := new(MockTokenService)
	tokenService.On("ValidateRefreshToken", "bogus").Return(nil, errors.New("revoked"))

	h := &Handlers{Token: tokenService}

	body, _ := json.Marshal(tokenRequest{RefreshToken: "bogus"})
	req, _ := http.NewRequest("POST", "/api/token/refresh", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.RefreshToken(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

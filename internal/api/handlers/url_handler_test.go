// filepath: internal/api/handlers/url_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"filedrop/internal/models"
	"filedrop/internal/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestCreateURL(t *testing.T) {
	short := &models.ShortURL{
		ID:          "01URLULID",
		Code:        "abc123",
		Destination: "https://example.com/page",
		UserID:      1,
	}

	urlService := new(MockURLService)
	urlService.On("Create", "https://example.com/page", "", int64(1)).Return(short, nil)

	h := &Handlers{URL: urlService, Auditor: NoopAuditor{}}

	body, _ := json.Marshal(createURLRequest{Destination: "https://example.com/page"})
	req, _ := http.NewRequest("POST", "/api/urls", bytes.NewReader(body))
	req = req.WithContext(withUser(req.Context(), testUser()))
	rr := httptest.NewRecorder()

	h.CreateURL(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var response models.ShortURL
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "abc123", response.Code)
	urlService.AssertExpectations(t)
}

func TestCreateURL_InvalidDestination(t *testing.T) {
	urlService := new(MockURLService)
	urlService.On("Create", "not-a-url", "", int64(1)).Return(nil, services.ErrValidation)

	h := &Handlers{URL: urlService, Auditor: NoopAuditor{}}

	body, _ := json.Marshal(createURLRequest{Destination: "not-a-url"})
	req, _ := http.NewRequest("POST", "/api/urls", bytes.NewReader(body))
	req = req.WithContext(withUser(req.Context(), testUser()))
	rr := httptest.NewRecorder()

	h.CreateURL(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRedirectURL(t *testing.T) {
	short := &models.ShortURL{
		Code:        "abc123",
		Destination: "https://example.com/page",
	}

	urlService := new(MockURLService)
	urlService.On("Resolve", "abc123").Return(short, nil)

	h := &Handlers{URL: urlService}

	req, _ := http.NewRequest("GET", "/u/abc123", nil)
	req = mux.SetURLVars(req, map[string]string{"code": "abc123"})
	rr := httptest.NewRecorder()

	h.RedirectURL(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://example.com/page", rr.Header().Get("Location"))
}

func TestRedirectURL_Unknown(t *testing.T) {
	urlService := new(MockURLService)
	urlService.On("Resolve", "nope").Return(nil, services.ErrNotFound)

	h := &Handlers{URL: urlService}

	req, _ := http.NewRequest("GET", "/u/nope", nil)
	req = mux.SetURLVars(req, map[string]string{"code": "nope"})
	rr := httptest.NewRecorder()

	h.RedirectURL(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

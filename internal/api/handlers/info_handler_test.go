// filepath: internal/api/handlers/info_handler_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"filedrop/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGetInfo(t *testing.T) {
	testInfo := models.Info{
		ServiceName: "filedrop",
		Version:     "v1.2.3-test",
		UptimeSince: time.Now(),
	}

	infoService := new(MockInfoService)
	infoService.On("GetInfo").Return(testInfo)

	h := &Handlers{Info: infoService}

	req, err := http.NewRequest("GET", "/api/info", nil)
	assert.NoError(t, err)
	rr := httptest.NewRecorder()

	h.GetInfo(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var response models.Info
	json.Unmarshal(rr.Body.Bytes(), &response)
	assert.Equal(t, "filedrop", response.ServiceName)
	assert.Equal(t, "v1.2.3-test", response.Version)
}

func TestHealthCheck(t *testing.T) {
	h := &Handlers{}

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	h.HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "OK")
}

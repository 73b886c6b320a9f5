// filepath: internal/api/handlers/stats_handler_test.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"filedrop/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetStats(t *testing.T) {
	report := &models.UsageReport{
		Size:       "1.0 MB",
		SizeNum:    1000000,
		Count:      3,
		CountUsers: 2,
		ViewsCount: 20,
		CountByUser: []models.UserCount{
			{Username: "alice", Count: 2},
			{Username: "bob", Count: 1},
		},
		TypesCount: []models.TypeCount{
			{MimeType: "image/png", Count: 2},
			{MimeType: "application/json", Count: 1},
		},
	}

	statsService := new(MockStatsService)
	statsService.On("ComputeUsageReport", mock.Anything).Return(report, nil)

	h := &Handlers{Stats: statsService}

	req, _ := http.NewRequest("GET", "/api/stats", nil)
	rr := httptest.NewRecorder()

	h.GetStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var response models.UsageReport
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, int64(1000000), response.SizeNum)
	assert.Equal(t, "1.0 MB", response.Size)
	assert.Equal(t, int64(2), response.CountUsers)
	assert.Len(t, response.CountByUser, 2)
	assert.Equal(t, "alice", response.CountByUser[0].Username)
	statsService.AssertExpectations(t)
}

func TestGetStats_Error(t *testing.T) {
	statsService := new(MockStatsService)
	statsService.On("ComputeUsageReport", mock.Anything).Return(nil, errors.New("datasource unavailable"))

	h := &Handlers{Stats: statsService}

	req, _ := http.NewRequest("GET", "/api/stats", nil)
	rr := httptest.NewRecorder()

	h.GetStats(rr, req)

	// No partial report: a failing component fails the whole call.
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var response ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Error)
}

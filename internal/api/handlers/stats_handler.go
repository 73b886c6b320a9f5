// filepath: internal/api/handlers/stats_handler.go
package handlers

import (
	"net/http"

	"filedrop/internal/logging"
	"filedrop/internal/metrics"
)

// @Summary Get usage statistics
// @Description Computes a point-in-time usage report: datasource size, file and user counts, views, and per-user and per-type breakdowns. Admin only. The report is computed fresh on every call.
// @Tags Stats
// @Produce json
// @Success 200 {object} models.UsageReport
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse "Report could not be computed"
// @Security BearerAuth
// @Router /stats [get]
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	report, err := h.Stats.ComputeUsageReport(r.Context())
	if err != nil {
		logging.Log.Errorf("GetStats: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute usage report")
		return
	}

	metrics.StatsRequestsTotal.Inc()
	respondWithJSON(w, http.StatusOK, report)
}

package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

type AnalyticsController struct {
	Logger  *slog.Logger
	Service domain.AnalyticsService
}

func NewAnalyticsController(logger *slog.Logger, svc domain.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Logger: logger, Service: svc}
}

// Summary godoc
// @Summary Organizer analytics summary
// @Description Totals and per-event metrics. Active figures exclude cancelled bookings; gross figures include them.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organizer ID"
// @Success 200 {object} helpers.APIResponse "data contains the summary"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/{id}/analytics [get]
func (c *AnalyticsController) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	summary, err := c.Service.OrganizerSummary(r.Context(), domain.ActorFromContext(r.Context()), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, summary)
}

// Trend godoc
// @Summary Organizer monthly trend
// @Description One point per month, oldest first, months without activity are zero.
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organizer ID"
// @Param months query int false "Number of months (default 6, max 24)"
// @Success 200 {object} helpers.APIResponse "data contains the monthly points"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/{id}/analytics/trend [get]
func (c *AnalyticsController) Trend(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	months := 0
	if s := r.URL.Query().Get("months"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "months must be an integer")
			return
		}
		months = v
	}
	points, err := c.Service.MonthlyTrend(r.Context(), domain.ActorFromContext(r.Context()), id, months)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, points)
}

package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// ApplyOrganizerRequest is the request body for POST /organizers/apply.
type ApplyOrganizerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate implements Validator.
func (a ApplyOrganizerRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(a.Email) == "" {
		errs = append(errs, "email is required")
	} else if !validEmail(a.Email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

type OrganizerController struct {
	Logger  *slog.Logger
	Service domain.OrganizerService
}

func NewOrganizerController(logger *slog.Logger, svc domain.OrganizerService) *OrganizerController {
	return &OrganizerController{Logger: logger, Service: svc}
}

// Apply godoc
// @Summary Apply to become an organizer
// @Description Creates a PENDING organizer for the current user. An e-mail owned by another user's organizer is rejected.
// @Tags organizers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ApplyOrganizerRequest true "Organizer details"
// @Success 201 {object} helpers.APIResponse "data contains the organizer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: rule_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizers/apply [post]
func (c *OrganizerController) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyOrganizerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	org, err := c.Service.Apply(r.Context(), domain.ActorFromContext(r.Context()),
		strings.TrimSpace(req.Name), strings.TrimSpace(strings.ToLower(req.Email)), strings.TrimSpace(req.Phone))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, org)
}

// Approve godoc
// @Summary Approve an organizer
// @Description Admin only. Links the applicant's profile and e-mails the decision.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organizer ID"
// @Success 200 {object} helpers.APIResponse "data contains the organizer"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers/{id}/approve [post]
func (c *OrganizerController) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	org, err := c.Service.Approve(r.Context(), domain.ActorFromContext(r.Context()), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, org)
}

// Reject godoc
// @Summary Reject an organizer
// @Description Admin only. Unlinks the applicant's profile and e-mails the decision.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Organizer ID"
// @Success 200 {object} helpers.APIResponse "data contains the organizer"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers/{id}/reject [post]
func (c *OrganizerController) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	org, err := c.Service.Reject(r.Context(), domain.ActorFromContext(r.Context()), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, org)
}

// List godoc
// @Summary List organizers by status
// @Description Admin only. status defaults to PENDING.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} helpers.APIResponse "data contains the organizers"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/organizers [get]
func (c *OrganizerController) List(w http.ResponseWriter, r *http.Request) {
	status := domain.OrganizerStatus(strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status"))))
	switch status {
	case "":
		status = domain.OrganizerPending
	case domain.OrganizerPending, domain.OrganizerApproved, domain.OrganizerRejected:
	default:
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "status must be PENDING, APPROVED or REJECTED")
		return
	}
	orgs, err := c.Service.List(r.Context(), domain.ActorFromContext(r.Context()), status)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, orgs)
}

package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// CreateAdminRequest is the request body for POST /admin/admins.
type CreateAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // ADMIN or STAFF, defaults to STAFF
}

// Validate implements Validator. Password strength is checked by the service.
func (c CreateAdminRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Username) == "" {
		errs = append(errs, "username is required")
	}
	if !validEmail(c.Email) {
		errs = append(errs, "invalid email format")
	}
	switch c.role() {
	case domain.AdminRoleAdmin, domain.AdminRoleStaff:
	default:
		errs = append(errs, "role must be ADMIN or STAFF")
	}
	return errs
}

func (c CreateAdminRequest) role() domain.AdminRole {
	role := domain.AdminRole(strings.ToUpper(strings.TrimSpace(c.Role)))
	if role == "" {
		return domain.AdminRoleStaff
	}
	return role
}

type AdminController struct {
	Logger  *slog.Logger
	Service domain.AdminService
}

func NewAdminController(logger *slog.Logger, svc domain.AdminService) *AdminController {
	return &AdminController{Logger: logger, Service: svc}
}

// Dashboard godoc
// @Summary Admin dashboard counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the counts"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.Dashboard(r.Context(), domain.ActorFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// CreateAdmin godoc
// @Summary Create an admin account
// @Description Only the ADMIN role may create admin or staff accounts.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAdminRequest true "Admin account"
// @Success 201 {object} helpers.APIResponse "data contains the admin"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/admins [post]
func (c *AdminController) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	admin, err := c.Service.CreateAdmin(r.Context(), domain.ActorFromContext(r.Context()),
		req.Username, req.Email, req.Password, req.role())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, admin)
}

// ListAdmins godoc
// @Summary List admin accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the admins"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/admins [get]
func (c *AdminController) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := c.Service.ListAdmins(r.Context(), domain.ActorFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if admins == nil {
		admins = []*domain.Admin{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, admins)
}

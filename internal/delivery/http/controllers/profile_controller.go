package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// SaveCustomerRequest is the request body for PUT /me/customer.
type SaveCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD, optional
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zipcode     string `json:"zipcode"`
	Country     string `json:"country"`
}

// Validate implements Validator.
func (s SaveCustomerRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	} else if !validEmail(s.Email) {
		errs = append(errs, "invalid email format")
	}
	if s.DateOfBirth != "" {
		if _, err := time.Parse(time.DateOnly, s.DateOfBirth); err != nil {
			errs = append(errs, "date_of_birth must be YYYY-MM-DD")
		}
	}
	return errs
}

func (s SaveCustomerRequest) customer() *domain.Customer {
	c := &domain.Customer{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(strings.ToLower(s.Email)),
		Phone:   strings.TrimSpace(s.Phone),
		Address: s.Address,
		City:    s.City,
		State:   s.State,
		Zipcode: s.Zipcode,
		Country: s.Country,
	}
	if s.DateOfBirth != "" {
		dob, _ := time.Parse(time.DateOnly, s.DateOfBirth)
		c.DateOfBirth = &dob
	}
	return c
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{Logger: logger, Service: svc}
}

// Me godoc
// @Summary Current user profile
// @Description Returns the user with the linked customer and organizer records, if any.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains user, customer and organizer"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me [get]
func (c *ProfileController) Me(w http.ResponseWriter, r *http.Request) {
	view, err := c.Service.Me(r.Context(), domain.ActorFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, view)
}

// SaveCustomer godoc
// @Summary Create or update the customer record
// @Description Creates the current user's customer record, or updates the linked one. Customer e-mails are unique.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveCustomerRequest true "Customer details"
// @Success 200 {object} helpers.APIResponse "data contains the saved customer"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/customer [put]
func (c *ProfileController) SaveCustomer(w http.ResponseWriter, r *http.Request) {
	var req SaveCustomerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	saved, err := c.Service.SaveCustomer(r.Context(), domain.ActorFromContext(r.Context()), req.customer())
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, saved)
}

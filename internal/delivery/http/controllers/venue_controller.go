package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// VenueRequest is the request body for POST /venues and PUT /venues/{id}.
// Range checks live on domain.Venue.
type VenueRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zipcode  string `json:"zipcode"`
	Country  string `json:"country"`
	Capacity int    `json:"capacity"`
}

func (v VenueRequest) venue(id string) *domain.Venue {
	return &domain.Venue{
		ID:       id,
		Name:     strings.TrimSpace(v.Name),
		Address:  strings.TrimSpace(v.Address),
		City:     strings.TrimSpace(v.City),
		State:    strings.TrimSpace(v.State),
		Zipcode:  strings.TrimSpace(v.Zipcode),
		Country:  strings.TrimSpace(v.Country),
		Capacity: v.Capacity,
	}
}

type VenueController struct {
	Logger  *slog.Logger
	Service domain.VenueService
}

func NewVenueController(logger *slog.Logger, svc domain.VenueService) *VenueController {
	return &VenueController{Logger: logger, Service: svc}
}

// CreateVenue godoc
// @Summary Create a venue
// @Description Creates a venue owned by the current user's organizer.
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VenueRequest true "Venue"
// @Success 201 {object} helpers.APIResponse "data contains the venue"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues [post]
func (c *VenueController) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var req VenueRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	venue := req.venue("")
	if err := c.Service.CreateVenue(r.Context(), domain.ActorFromContext(r.Context()), venue); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, venue)
}

// UpdateVenue godoc
// @Summary Update a venue
// @Description The owning organizer or an admin may edit a venue.
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Venue ID"
// @Param body body VenueRequest true "Venue"
// @Success 200 {object} helpers.APIResponse "data contains the venue"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues/{id} [put]
func (c *VenueController) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var req VenueRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	venue, err := c.Service.UpdateVenue(r.Context(), domain.ActorFromContext(r.Context()), req.venue(id))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, venue)
}

// ListMyVenues godoc
// @Summary List own venues
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the venues"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /venues [get]
func (c *VenueController) ListMyVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := c.Service.ListMine(r.Context(), domain.ActorFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, venues)
}

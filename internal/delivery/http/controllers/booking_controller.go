package controllers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"
)

// PaymentRequest carries card details. Only the masked number is stored.
type PaymentRequest struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number"`
}

// CreateBookingRequest is the request body for POST /events/{id}/bookings.
type CreateBookingRequest struct {
	Quantity    int             `json:"ticket_qty"`
	SelectedDay *int            `json:"selected_day"`
	Payment     *PaymentRequest `json:"payment"`
}

// Validate implements Validator. Quantity bounds and card checks run in the domain.
func (c CreateBookingRequest) Validate() []string {
	var errs []string
	if c.Quantity == 0 {
		errs = append(errs, "ticket_qty is required")
	}
	return errs
}

func (c CreateBookingRequest) request(eventID string) domain.BookingRequest {
	req := domain.BookingRequest{
		EventID:     eventID,
		Quantity:    c.Quantity,
		SelectedDay: c.SelectedDay,
	}
	if c.Payment != nil {
		req.Payment = &domain.PaymentDetails{
			Method:     domain.PaymentMethod(strings.ToUpper(strings.TrimSpace(c.Payment.Method))),
			CardNumber: c.Payment.CardNumber,
		}
	}
	return req
}

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{Logger: logger, Service: svc}
}

// CreateBooking godoc
// @Summary Book tickets
// @Description Books tickets for a published event. Paid event types require payment; conferences are free and single-ticket.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body CreateBookingRequest true "Booking"
// @Success 201 {object} helpers.APIResponse "data contains the receipt"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: rule_violation, error.rule names the rule"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	receipt, err := c.Service.AttemptBooking(r.Context(), domain.ActorFromContext(r.Context()), req.request(id))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, receipt)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description The booking customer may cancel before the event starts; admins may cancel at any time. Payments are kept.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} helpers.APIResponse "data contains the booking"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: rule_violation"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{id}/cancel [post]
func (c *BookingController) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	booking, err := c.Service.CancelBooking(r.Context(), domain.ActorFromContext(r.Context()), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, booking)
}

// GetReceipt godoc
// @Summary Booking receipt
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} helpers.APIResponse "data contains the receipt"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings/{id} [get]
func (c *BookingController) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.PathID(w, r)
	if !ok {
		return
	}
	receipt, err := c.Service.GetReceipt(r.Context(), domain.ActorFromContext(r.Context()), id)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, receipt)
}

// ListMyBookings godoc
// @Summary List own bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains bookings with their events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/bookings [get]
func (c *BookingController) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.ListMine(r.Context(), domain.ActorFromContext(r.Context()))
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.BookingWithEvent{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// ListOrganizerBookings godoc
// @Summary List bookings on own events
// @Description An organizer lists bookings across their events, newest first. event_id narrows the list to one event.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains organizer bookings"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/events/bookings [get]
func (c *BookingController) ListOrganizerBookings(w http.ResponseWriter, r *http.Request) {
	eventID := r.URL.Query().Get("event_id")
	if eventID != "" && !h.IsUUID(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "event_id must be a UUID")
		return
	}
	list, err := c.Service.ListForOrganizer(r.Context(), domain.ActorFromContext(r.Context()), eventID)
	if err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.OrganizerBooking{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, list)
}

// ExportAttendees godoc
// @Summary Export attendees as CSV
// @Description The event's organizer or an admin downloads every booking of the event.
// @Tags bookings
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {string} string "CSV file"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/bookings.csv [get]
func (c *BookingController) ExportAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := h.PathID(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := c.Service.ExportAttendees(r.Context(), domain.ActorFromContext(r.Context()), eventID, &buf); err != nil {
		h.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendees-%s.csv"`, eventID))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

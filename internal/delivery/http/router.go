package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"eventbooking/internal/delivery/http/controllers"
	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the HTTP handlers wired by NewRouter.
type Controllers struct {
	Auth      *controllers.AuthController
	Profile   *controllers.ProfileController
	Organizer *controllers.OrganizerController
	Venue     *controllers.VenueController
	Event     *controllers.EventController
	Booking   *controllers.BookingController
	Analytics *controllers.AnalyticsController
	Admin     *controllers.AdminController
	Assistant *controllers.AssistantController
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouterConfig carries everything NewRouter needs besides the controllers.
type RouterConfig struct {
	Verifier     domain.TokenVerifier
	Logger       *slog.Logger
	CORSOrigins  []string
	HealthChecks map[string]HealthCheck
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	optional := middleware.OptionalAuth(cfg.Verifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /admin/login", c.Auth.AdminLogin)

	// Profile
	mux.HandleFunc("GET /me", auth(c.Profile.Me))
	mux.HandleFunc("PUT /me/customer", auth(c.Profile.SaveCustomer))
	mux.HandleFunc("GET /me/bookings", auth(c.Booking.ListMyBookings))
	mux.HandleFunc("GET /me/events", auth(c.Event.ListMyEvents))
	mux.HandleFunc("GET /me/events/bookings", auth(c.Booking.ListOrganizerBookings))

	// Organizers
	mux.HandleFunc("POST /organizers/apply", auth(c.Organizer.Apply))
	mux.HandleFunc("GET /organizers/{id}/analytics", auth(c.Analytics.Summary))
	mux.HandleFunc("GET /organizers/{id}/analytics/trend", auth(c.Analytics.Trend))

	// Venues
	mux.HandleFunc("POST /venues", auth(c.Venue.CreateVenue))
	mux.HandleFunc("GET /venues", auth(c.Venue.ListMyVenues))
	mux.HandleFunc("PUT /venues/{id}", auth(c.Venue.UpdateVenue))

	// Events
	mux.HandleFunc("GET /events", c.Event.ListUpcoming)
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/{id}", optional(c.Event.GetEvent))
	mux.HandleFunc("PUT /events/{id}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("POST /events/{id}/publish", auth(c.Event.PublishEvent))
	mux.HandleFunc("POST /events/{id}/cancel", auth(c.Event.CancelEvent))

	// Bookings
	mux.HandleFunc("POST /events/{id}/bookings", auth(c.Booking.CreateBooking))
	mux.HandleFunc("GET /events/{id}/bookings.csv", auth(c.Booking.ExportAttendees))
	mux.HandleFunc("GET /bookings/{id}", auth(c.Booking.GetReceipt))
	mux.HandleFunc("POST /bookings/{id}/cancel", auth(c.Booking.CancelBooking))

	// Admin portal
	mux.HandleFunc("GET /admin/dashboard", auth(c.Admin.Dashboard))
	mux.HandleFunc("GET /admin/admins", auth(c.Admin.ListAdmins))
	mux.HandleFunc("POST /admin/admins", auth(c.Admin.CreateAdmin))
	mux.HandleFunc("GET /admin/organizers", auth(c.Organizer.List))
	mux.HandleFunc("POST /admin/organizers/{id}/approve", auth(c.Organizer.Approve))
	mux.HandleFunc("POST /admin/organizers/{id}/reject", auth(c.Organizer.Reject))

	// Assistant
	mux.HandleFunc("POST /assistant/chat", optional(c.Assistant.Chat))

	// Operations
	mux.HandleFunc("GET /healthz", healthHandler(cfg.HealthChecks))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.CORS(cfg.CORSOrigins, middleware.LoggingMiddleware(cfg.Logger, mux))
}

// healthHandler runs every check with a short deadline and answers 503 naming the failing ones.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}
		if !healthy {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(h.APIResponse{Data: status, Error: &h.APIError{Code: "unavailable", Message: "dependency check failed"}})
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, status)
	}
}

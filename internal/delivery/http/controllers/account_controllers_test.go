package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileService struct {
	err          error
	lastCustomer *domain.Customer
}

func (f *fakeProfileService) Me(_ context.Context, actor domain.Actor) (*domain.ProfileView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ProfileView{User: &domain.User{ID: actor.ID, Email: actor.Email}}, nil
}

func (f *fakeProfileService) SaveCustomer(_ context.Context, _ domain.Actor, c *domain.Customer) (*domain.Customer, error) {
	f.lastCustomer = c
	if f.err != nil {
		return nil, f.err
	}
	c.ID = "cus-1"
	return c, nil
}

type fakeOrganizerService struct {
	err        error
	lastName   string
	lastEmail  string
	lastID     string
	lastStatus domain.OrganizerStatus
}

func (f *fakeOrganizerService) Apply(_ context.Context, _ domain.Actor, name, email, _ string) (*domain.Organizer, error) {
	f.lastName, f.lastEmail = name, email
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Organizer{ID: "a0000000-0000-4000-8000-000000000001", Name: name, Email: email, Status: domain.OrganizerPending}, nil
}

func (f *fakeOrganizerService) Approve(_ context.Context, _ domain.Actor, id string) (*domain.Organizer, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Organizer{ID: id, Status: domain.OrganizerApproved}, nil
}

func (f *fakeOrganizerService) Reject(_ context.Context, _ domain.Actor, id string) (*domain.Organizer, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Organizer{ID: id, Status: domain.OrganizerRejected}, nil
}

func (f *fakeOrganizerService) List(_ context.Context, _ domain.Actor, status domain.OrganizerStatus) ([]*domain.Organizer, error) {
	f.lastStatus = status
	return []*domain.Organizer{{ID: "a0000000-0000-4000-8000-000000000001", Status: status}}, f.err
}

type fakeVenueService struct {
	err       error
	lastVenue *domain.Venue
}

func (f *fakeVenueService) CreateVenue(_ context.Context, _ domain.Actor, v *domain.Venue) error {
	f.lastVenue = v
	if f.err != nil {
		return f.err
	}
	v.ID = "c0000000-0000-4000-8000-000000000001"
	return nil
}

func (f *fakeVenueService) UpdateVenue(_ context.Context, _ domain.Actor, v *domain.Venue) (*domain.Venue, error) {
	f.lastVenue = v
	return v, f.err
}

func (f *fakeVenueService) ListMine(_ context.Context, _ domain.Actor) ([]*domain.Venue, error) {
	return []*domain.Venue{{ID: "c0000000-0000-4000-8000-000000000001"}}, f.err
}

func TestProfileController(t *testing.T) {
	svc := &fakeProfileService{}
	c := NewProfileController(testLogger, svc)

	rr := serve(t, "GET /me", c.Me, http.MethodGet, "/me", "", userActor)
	require.Equal(t, http.StatusOK, rr.Code)
	var view domain.ProfileView
	decodeData(t, rr, &view)
	assert.Equal(t, "user-1", view.User.ID)

	body := `{"name":"Alice","email":"Alice@Example.com","date_of_birth":"1990-04-02","city":"Springfield"}`
	rr = serve(t, "PUT /me/customer", c.SaveCustomer, http.MethodPut, "/me/customer", body, userActor)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, svc.lastCustomer)
	assert.Equal(t, "alice@example.com", svc.lastCustomer.Email)
	require.NotNil(t, svc.lastCustomer.DateOfBirth)
	assert.Equal(t, time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC), *svc.lastCustomer.DateOfBirth)

	rr = serve(t, "PUT /me/customer", c.SaveCustomer, http.MethodPut, "/me/customer",
		`{"name":"Alice","email":"a@example.com","date_of_birth":"02/04/1990"}`, userActor)
	requireError(t, rr, http.StatusBadRequest, helpers.ErrCodeBadRequest)

	svc.err = domain.ErrDuplicateEmail
	rr = serve(t, "PUT /me/customer", c.SaveCustomer, http.MethodPut, "/me/customer", `{"name":"A","email":"b@example.com"}`, userActor)
	requireError(t, rr, http.StatusConflict, helpers.ErrCodeConflict)
}

func TestOrganizerController(t *testing.T) {
	svc := &fakeOrganizerService{}
	c := NewOrganizerController(testLogger, svc)

	rr := serve(t, "POST /organizers/apply", c.Apply, http.MethodPost, "/organizers/apply",
		`{"name":" Acme Events ","email":"Hello@Acme.io","phone":"555"}`, userActor)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Acme Events", svc.lastName)
	assert.Equal(t, "hello@acme.io", svc.lastEmail)

	rr = serve(t, "POST /admin/organizers/{id}/approve", c.Approve, http.MethodPost, "/admin/organizers/a0000000-0000-4000-8000-000000000007/approve", "", adminActor)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "a0000000-0000-4000-8000-000000000007", svc.lastID)

	rr = serve(t, "POST /admin/organizers/{id}/reject", c.Reject, http.MethodPost, "/admin/organizers/a0000000-0000-4000-8000-000000000008/reject", "", adminActor)
	require.Equal(t, http.StatusOK, rr.Code)
	var org domain.Organizer
	decodeData(t, rr, &org)
	assert.Equal(t, domain.OrganizerRejected, org.Status)

	rr = serve(t, "GET /admin/organizers", c.List, http.MethodGet, "/admin/organizers", "", adminActor)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.OrganizerPending, svc.lastStatus)

	rr = serve(t, "GET /admin/organizers", c.List, http.MethodGet, "/admin/organizers?status=approved", "", adminActor)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.OrganizerApproved, svc.lastStatus)

	rr = serve(t, "GET /admin/organizers", c.List, http.MethodGet, "/admin/organizers?status=unknown", "", adminActor)
	requireError(t, rr, http.StatusBadRequest, helpers.ErrCodeBadRequest)

	svc.err = domain.Violation(domain.RuleOrganizerEmailClaimed, "email belongs to another organizer")
	rr = serve(t, "POST /organizers/apply", c.Apply, http.MethodPost, "/organizers/apply", `{"name":"X","email":"x@acme.io"}`, userActor)
	apiErr := requireError(t, rr, http.StatusConflict, helpers.ErrCodeRuleViolation)
	assert.Equal(t, string(domain.RuleOrganizerEmailClaimed), apiErr.Rule)

	svc.err = domain.ErrForbidden
	rr = serve(t, "POST /admin/organizers/{id}/approve", c.Approve, http.MethodPost, "/admin/organizers/a0000000-0000-4000-8000-000000000007/approve", "", userActor)
	requireError(t, rr, http.StatusForbidden, helpers.ErrCodeForbidden)
}

func TestVenueController(t *testing.T) {
	svc := &fakeVenueService{}
	c := NewVenueController(testLogger, svc)

	rr := serve(t, "POST /venues", c.CreateVenue, http.MethodPost, "/venues",
		`{"name":" Main Hall ","address":"1 Main St","city":"Springfield","capacity":500}`, userActor)
	require.Equal(t, http.StatusCreated, rr.Code)
	var v domain.Venue
	decodeData(t, rr, &v)
	assert.Equal(t, "c0000000-0000-4000-8000-000000000001", v.ID)
	assert.Equal(t, "Main Hall", v.Name)

	rr = serve(t, "PUT /venues/{id}", c.UpdateVenue, http.MethodPut, "/venues/c0000000-0000-4000-8000-000000000003",
		`{"name":"Annex","address":"2 Main St","capacity":50}`, userActor)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "c0000000-0000-4000-8000-000000000003", svc.lastVenue.ID)

	rr = serve(t, "GET /venues", c.ListMyVenues, http.MethodGet, "/venues", "", userActor)
	require.Equal(t, http.StatusOK, rr.Code)

	svc.err = domain.NewValidationError("capacity must be between 0 and 50000")
	rr = serve(t, "POST /venues", c.CreateVenue, http.MethodPost, "/venues", `{"name":"X","address":"Y","capacity":60000}`, userActor)
	apiErr := requireError(t, rr, http.StatusBadRequest, helpers.ErrCodeBadRequest)
	assert.Contains(t, apiErr.Message, "capacity")
}

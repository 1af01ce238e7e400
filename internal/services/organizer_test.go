package services

import (
	"context"
	"testing"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type organizerFixture struct {
	svc      domain.OrganizerService
	orgs     *fakeOrganizerRepo
	profiles *fakeProfileRepo
	email    *fakeEmailService
}

func newOrganizerFixture(orgs ...*domain.Organizer) *organizerFixture {
	f := &organizerFixture{
		orgs:     newFakeOrganizerRepo(orgs...),
		profiles: newFakeProfileRepo(),
		email:    &fakeEmailService{},
	}
	f.svc = NewOrganizerService(&lockingTx{}, f.orgs, f.profiles, f.email, clock.NewFixed(testNow), testLogger, testTimeout)
	return f
}

func TestOrganizerService_ApplyApproveReject(t *testing.T) {
	ctx := context.Background()
	f := newOrganizerFixture()

	org, err := f.svc.Apply(ctx, alice, " Alice Shows ", "Shows@Example.com", "555-0100")
	require.NoError(t, err)
	assert.Equal(t, domain.OrganizerPending, org.Status)
	assert.Equal(t, "shows@example.com", org.Email)
	require.NotNil(t, org.UserID)
	assert.Equal(t, alice.ID, *org.UserID)

	again, err := f.svc.Apply(ctx, alice, "Alice Shows", "shows@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, org.ID, again.ID, "pending application is returned as is")

	approved, err := f.svc.Approve(ctx, adminActor, org.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrganizerApproved, approved.Status)
	prof, err := f.profiles.GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, prof.OrganizerID)
	assert.Equal(t, org.ID, *prof.OrganizerID)
	require.Len(t, f.email.decisions, 1)
	assert.True(t, f.email.decisions[0].Approved)

	_, err = f.svc.Reject(ctx, staffActor, org.ID)
	require.NoError(t, err)
	prof, err = f.profiles.GetByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, prof.OrganizerID, "rejection revokes organizer access")
	require.Len(t, f.email.decisions, 2)
	assert.False(t, f.email.decisions[1].Approved)

	reopened, err := f.svc.Apply(ctx, alice, "Alice Shows", "shows@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, org.ID, reopened.ID)
	assert.Equal(t, domain.OrganizerPending, reopened.Status)
	assert.Equal(t, domain.OrganizerPending, f.orgs.byID[org.ID].Status)
}

func TestOrganizerService_ApplyRejections(t *testing.T) {
	ctx := context.Background()
	f := newOrganizerFixture(approvedOrg())

	_, err := f.svc.Apply(ctx, alice, "Copycat", "acme@example.com", "")
	assert.True(t, domain.IsRule(err, domain.RuleOrganizerEmailClaimed))

	_, err = f.svc.Apply(ctx, alice, "", "bad", "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 2)

	_, err = f.svc.Apply(ctx, domain.Actor{}, "Guest Co", "guest@example.com", "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.Apply(ctx, adminActor, "Admin Co", "adminco@example.com", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestOrganizerService_DecisionsRequireAdmin(t *testing.T) {
	ctx := context.Background()
	pending := &domain.Organizer{ID: "org-9", Name: "Pending", Email: "p@example.com", Status: domain.OrganizerPending}
	f := newOrganizerFixture(pending)

	_, err := f.svc.Approve(ctx, alice, "org-9")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.Reject(ctx, domain.Actor{}, "org-9")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.svc.Approve(ctx, adminActor, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.email.decisions)

	// Organizers without a user link are approved without touching profiles.
	org, err := f.svc.Approve(ctx, adminActor, "org-9")
	require.NoError(t, err)
	assert.Equal(t, testNow, org.UpdatedAt)
	assert.Empty(t, f.profiles.byUser)
}

func TestOrganizerService_DecisionEmailFailureIsIgnored(t *testing.T) {
	pending := &domain.Organizer{ID: "org-9", Name: "Pending", Email: "p@example.com", Status: domain.OrganizerPending, CreatedAt: testNow.Add(-time.Hour)}
	f := newOrganizerFixture(pending)
	f.email.err = errDB

	org, err := f.svc.Approve(context.Background(), adminActor, "org-9")
	require.NoError(t, err)
	assert.Equal(t, domain.OrganizerApproved, org.Status)
}

func TestOrganizerService_List(t *testing.T) {
	ctx := context.Background()
	pending := &domain.Organizer{ID: "org-9", Name: "Pending", Email: "p@example.com", Status: domain.OrganizerPending}
	f := newOrganizerFixture(approvedOrg(), pending)

	list, err := f.svc.List(ctx, staffActor, domain.OrganizerPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "org-9", list[0].ID)

	all, err := f.svc.List(ctx, adminActor, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.svc.List(ctx, adminActor, domain.OrganizerRejected)
	require.NoError(t, err)
	assert.NotNil(t, none)

	_, err = f.svc.List(ctx, adminActor, "ARCHIVED")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = f.svc.List(ctx, alice, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

package domain

import "context"

// Role is the kind of principal behind a request.
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Actor is the authenticated principal passed explicitly into every service call.
// The zero value is an anonymous guest.
type Actor struct {
	ID    string
	Email string
	Role  Role
}

// IsGuest reports whether no one is authenticated.
func (a Actor) IsGuest() bool { return a.ID == "" }

// IsUser reports whether the actor is a regular user identity (participant or organizer).
func (a Actor) IsUser() bool { return a.ID != "" && a.Role == RoleUser }

// IsAdmin reports whether the actor belongs to the admin portal (ADMIN or STAFF).
func (a Actor) IsAdmin() bool {
	return a.ID != "" && (a.Role == RoleAdmin || a.Role == RoleStaff)
}

// CanManageAdmins is true only for the ADMIN role.
func (a Actor) CanManageAdmins() bool { return a.ID != "" && a.Role == RoleAdmin }

type actorKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor stored by WithActor, or a guest.
func ActorFromContext(ctx context.Context) Actor {
	a, _ := ctx.Value(actorKey{}).(Actor)
	return a
}

// Package permission holds the pure write-authorization policies.
// Every mutating endpoint delegates its allow/deny decision here;
// handlers never re-implement ownership or role checks ad hoc.
package permission

import (
	"net/http"

	"critichub/internal/api/models"
)

// Actor is the requester as seen by the policies. A nil *Actor is an
// anonymous request and fails closed on every write path.
type Actor struct {
	ID        string
	Role      models.Role
	Staff     bool
	Superuser bool
}

// Elevated reports whether the actor holds administrative capability:
// the admin role or superuser status.
func (a *Actor) Elevated() bool {
	if a == nil {
		return false
	}
	return a.Role == models.RoleAdmin || a.Superuser
}

// safe methods never require authorization.
func readOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// AdminOrReadOnly allows reads to everyone and writes only to elevated
// actors. Gates Category, Genre and Title management.
func AdminOrReadOnly(method string, actor *Actor) bool {
	if readOnly(method) {
		return true
	}
	return actor.Elevated()
}

// OwnerOrModeratorOrAdminOrReadOnly allows reads to everyone; writes to
// staff, superusers, the object's author, or moderators. Gates Review and
// Comment mutation.
func OwnerOrModeratorOrAdminOrReadOnly(method string, actor *Actor, authorID string) bool {
	if readOnly(method) {
		return true
	}
	if actor == nil {
		return false
	}
	if actor.Staff || actor.Superuser {
		return true
	}
	if actor.ID != "" && actor.ID == authorID {
		return true
	}
	return actor.Role == models.RoleModerator
}

// AdminNotModerator requires the staff flag and the admin role at the same
// time; a staff moderator is rejected. Gates the user directory.
func AdminNotModerator(actor *Actor) bool {
	if actor == nil {
		return false
	}
	if actor.Superuser {
		return true
	}
	return actor.Staff && actor.Role == models.RoleAdmin
}

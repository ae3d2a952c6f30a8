package security

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"timebill/internal/core/apperror"
	appctx "timebill/internal/core/context"
	"timebill/internal/core/entity"
)

// Actor is the authorization view of the authenticated principal.
// Built once per request from ActorContext; predicates below are pure.
type Actor struct {
	UserID     string
	BusinessID string
	Roles      []Role
}

// ActorFrom builds an Actor from the request context.
// Returns nil when no principal is present.
func ActorFrom(ctx context.Context) *Actor {
	ac := appctx.GetActor(ctx)
	if ac == nil {
		return nil
	}
	roles := FromStrings(ac.Roles)
	if ac.IsSystemAdmin {
		roles = appendUnique(roles, RoleSystemAdmin)
	}
	return &Actor{
		UserID:     ac.UserID,
		BusinessID: ac.BusinessID,
		Roles:      roles,
	}
}

func appendUnique(roles []Role, r Role) []Role {
	for _, existing := range roles {
		if existing == r {
			return roles
		}
	}
	return append(roles, r)
}

// IsSystemAdmin reports whether the actor holds the global administrative role.
func (a *Actor) IsSystemAdmin() bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == RoleSystemAdmin {
			return true
		}
	}
	return false
}

// HasRole reports whether the actor holds the given role.
func (a *Actor) HasRole(role Role) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Can reports whether any of the actor's roles grants the action.
func (a *Actor) Can(action Action) bool {
	if a == nil {
		return false
	}
	for _, r := range a.Roles {
		if r.Can(action) {
			return true
		}
	}
	return false
}

// PrivilegedAccount is implemented by user records that carry the global
// administrative role. A tenant-level administrator may not modify such
// accounts even inside their own tenant.
type PrivilegedAccount interface {
	HasGlobalRole() bool
}

// CanView reports whether the actor may read the resource.
// True for the global administrative role, or when the resource's tenant
// matches the actor's tenant. A resource without a business scope is
// inaccessible, never an error.
func CanView(actor *Actor, resource entity.IBusinessScoped) bool {
	if actor == nil || resource == nil {
		return false
	}
	if actor.IsSystemAdmin() {
		return true
	}
	bid := resource.GetBusinessID()
	if bid == "" || actor.BusinessID == "" {
		return false
	}
	return bid == actor.BusinessID
}

// CanModify reports whether the actor may mutate the resource.
// Same tenant rule as CanView, with one extra restriction: a resource that
// itself holds the global role is off-limits to tenant administrators.
func CanModify(actor *Actor, resource entity.IBusinessScoped) bool {
	if !CanView(actor, resource) {
		return false
	}
	if actor.IsSystemAdmin() {
		return true
	}
	if priv, ok := resource.(PrivilegedAccount); ok && priv.HasGlobalRole() {
		return false
	}
	return true
}

// ScopeByBusiness returns a query filter restricting rows to the actor's
// tenant. Nil means unrestricted (global administrative role).
func ScopeByBusiness(actor *Actor) squirrel.Sqlizer {
	if actor.IsSystemAdmin() {
		return nil
	}
	return squirrel.Eq{"business_id": actor.BusinessID}
}

// RequireView returns a Forbidden error when CanView fails.
func RequireView(actor *Actor, resource entity.IBusinessScoped, name string) error {
	if actor == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	if !CanView(actor, resource) {
		return apperror.NewForbidden(fmt.Sprintf("no access to this %s", name))
	}
	return nil
}

// RequireModify returns a Forbidden error when CanModify fails.
func RequireModify(actor *Actor, resource entity.IBusinessScoped, name string) error {
	if actor == nil {
		return apperror.NewUnauthorized("authentication required")
	}
	if !CanModify(actor, resource) {
		return apperror.NewForbidden(fmt.Sprintf("cannot modify this %s", name))
	}
	return nil
}

// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// ActorContext contains the authenticated principal for the current request.
// It is always passed explicitly through context.Context; core code never
// reads authentication state from globals.
type ActorContext struct {
	UserID string

	// BusinessID is the tenant the actor belongs to.
	// Empty only for a System Admin, who is not bound to any tenant.
	BusinessID string

	Email string

	// Roles are raw role claims (see security.Role for the closed set).
	Roles []string

	// IsSystemAdmin marks the global administrative role.
	IsSystemAdmin bool
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context, or nil when unauthenticated.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.UserID
	}
	return ""
}

// GetBusinessID returns the acting tenant ID from context or empty string.
func GetBusinessID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.BusinessID
	}
	return ""
}

// HasRole checks if the actor carries a specific role claim.
func (a *ActorContext) HasRole(role string) bool {
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

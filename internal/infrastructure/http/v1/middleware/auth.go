package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"timebill/internal/core/apperror"
	appctx "timebill/internal/core/context"
	"timebill/internal/core/security"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.ActorContext, error)
}

// Auth middleware validates JWT tokens and populates the actor context.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		actor, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		ctx := appctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("user_id", actor.UserID)
		c.Set("business_id", actor.BusinessID)

		c.Next()
	}
}

// RequireAction middleware checks that the actor's roles grant the action.
func RequireAction(action security.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := security.ActorFrom(c.Request.Context())
		if actor == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		if !actor.IsSystemAdmin() && !actor.Can(action) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("required_action", string(action)),
			)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSystemAdmin restricts the route to the global administrative role.
func RequireSystemAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := security.ActorFrom(c.Request.Context())
		if actor == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}
		if !actor.IsSystemAdmin() {
			_ = c.Error(apperror.NewForbidden("insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fitcore/gym-manager/internal/httperr"
	"github.com/fitcore/gym-manager/internal/token"
)

const (
	ContextUserID   = "userID"
	ContextGymID    = "gymID"
	ContextUserRole = "userRole"
)

// AuthMiddleware fails closed: requests without a valid Bearer token are
// rejected before any handler runs. On success the acting user's id, gym id
// and role are attached to the request context.
func AuthMiddleware(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			httperr.Abort(c, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextGymID, claims.GymID)
		c.Set(ContextUserRole, claims.Role)

		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Runs after
// AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if _, ok := allowed[role]; !ok {
			httperr.Abort(c, http.StatusForbidden, "Your role is not authorized to access this route")
			return
		}
		c.Next()
	}
}

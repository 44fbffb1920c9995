package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dnoglop/task-joule/constants"
)

// RequirePermission gates a route on the single policy table in constants.
// Authorization failures render as an access-denied payload, never as a
// partial result.
func RequirePermission(action constants.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user claims"})
			return
		}

		if !constants.Can(constants.RoleEnum(claims.Role), action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

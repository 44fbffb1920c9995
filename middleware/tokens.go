package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dnoglop/task-joule/models"
	"github.com/dnoglop/task-joule/utils"
)

// ClaimsKey is the gin context key the auth middleware stores claims under.
const ClaimsKey = "userClaims"

func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header format"})
			return
		}

		claims, err := validateJWT(tokenStr, db)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		// Attach claims to context
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func validateJWT(tokenStr string, db *gorm.DB) (*utils.JWTClaims, error) {
	claims, err := utils.ParseJWT(tokenStr)
	if err != nil {
		return nil, errors.New("invalid token")
	}

	var identity models.Identity
	if err := db.First(&identity, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("account not found")
		}
		return nil, err
	}

	if identity.Status != "active" {
		return nil, errors.New("account is not active")
	}

	if identity.TokenVersion != claims.TokenVersion {
		return nil, errors.New("token expired/invalid due to password change")
	}

	return claims, nil
}

// GetClaims pulls the authenticated caller's claims off the gin context.
func GetClaims(c *gin.Context) (*utils.JWTClaims, bool) {
	claimsVal, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := claimsVal.(*utils.JWTClaims)
	return claims, ok
}

package middleware

import (
	"strings"

	"mls_backend/internal/model"
	"mls_backend/internal/repository"
	"mls_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the Bearer token and stashes the claims on the
// request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			util.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			util.Unauthorized(c, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(parts[1], secret)
		if err != nil {
			util.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set("user", claims)
		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles. Admin passes
// everywhere.
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	allowed := make(map[model.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		if claims.Role != model.Admin && !allowed[claims.Role] {
			util.HandleError(c, util.Forbidden("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActivityMiddleware records a last-seen timestamp after each
// authenticated request, off the hot path.
func ActivityMiddleware(userRepo *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		claims := util.GetUserFromContext(c)
		if claims == nil {
			return
		}
		go userRepo.UpdateLastSeen(claims.UserID)
	}
}

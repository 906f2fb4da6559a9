package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"pareto_backend/internal/auth"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/models"
	"pareto_backend/pkg/apperrors"
	"pareto_backend/pkg/contextkeys"
)

// AuthMiddleware validates the Bearer JWT and puts its claims on the gin context
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			c.Abort()
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(contextkeys.UserIDKey, claims.UserID)
		c.Set(contextkeys.UserEmailKey, claims.Email)
		c.Set(contextkeys.UserRoleKey, claims.Role)
		c.Set(contextkeys.MustChangePasswordKey, claims.MustChangePassword)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		ctx = logger.WithRole(ctx, string(claims.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRoles lets through only the listed roles
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.HasAnyRole(GetRole(c), roles...) {
			logger.CtxWarn(c.Request.Context(), "Access denied", "role", GetRole(c), "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.NewForbiddenError("Access denied: insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// passwordChangeExempt are the only routes a user with a temporary password
// can reach, matched against the registered route pattern
var passwordChangeExempt = map[string]bool{
	"/api/v1/auth/change-password": true,
	"/api/v1/auth/session":         true,
}

// RequirePasswordChanged blocks accounts still on their temporary password.
func RequirePasswordChanged() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(contextkeys.MustChangePasswordKey) && !passwordChangeExempt[c.FullPath()] {
			apperrors.HandleError(c, apperrors.ErrPasswordChangeRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	return c.GetString(contextkeys.UserIDKey)
}

func GetRole(c *gin.Context) models.Role {
	val, exists := c.Get(contextkeys.UserRoleKey)
	if !exists {
		return ""
	}
	switch role := val.(type) {
	case models.Role:
		return role
	case string:
		return models.Role(role)
	}
	return ""
}

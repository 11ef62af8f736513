package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/auth"
	"tutorlink_backend/internal/logger"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/pkg/apperrors"
)

// AuthMiddleware parses the Bearer token and stores the caller's identity in
// the gin context under "userID" and "userRole".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header must be 'Bearer <token>'"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "token rejected",
				"error", err, "path", c.Request.URL.Path)
			appErr := apperrors.ErrInvalidToken
			if errors.Is(err, auth.ErrExpiredToken) {
				appErr = apperrors.ErrTokenExpired
			}
			apperrors.HandleError(c, appErr)
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware allows only the listed roles past. It must run after
// AuthMiddleware.
func RoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("userRole")
		if !exists {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			c.Abort()
			return
		}

		roleStr, _ := roleVal.(string)
		for _, role := range roles {
			if roleStr == string(role) {
				c.Next()
				return
			}
		}

		apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
		c.Abort()
	}
}

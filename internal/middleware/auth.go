package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"propman-be-svc/internal/models"
	"propman-be-svc/internal/service"
	"propman-be-svc/pkg/utils"
)

// ContextUserKey is the gin context key holding the authenticated user
const ContextUserKey = "auth_user"

// Auth validates the bearer token and loads the account it names into the
// request context. Requests without a valid token are rejected.
func Auth(userService service.UserService, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			utils.UnauthorizedResponse(c, "Authorization header is required", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.UnauthorizedResponse(c, "Authorization header must be a bearer token", nil)
			c.Abort()
			return
		}

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.UnauthorizedResponse(c, "Invalid or expired token", err)
			c.Abort()
			return
		}

		user, err := userService.GetByID(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c, "Account no longer exists", nil)
			c.Abort()
			return
		}
		if user.Status != models.UserStatusActive {
			utils.ForbiddenResponse(c, "Account is inactive", nil)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

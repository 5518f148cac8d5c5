package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/pkg/auth"
)

// Context keys set by SessionAuth
const (
	ContextSessionID = "sessionID"
	ContextRole      = "role"
	ContextClaims    = "claims"
)

// SessionTokenValidator checks a token against a node's current session
type SessionTokenValidator interface {
	ValidateSessionToken(sessionID, token string) (*auth.Claims, error)
}

// AuthMiddleware guards the authenticated session routes
type AuthMiddleware struct {
	validator SessionTokenValidator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator SessionTokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// SessionAuth requires a token issued for the :id node in its current epoch.
// Browsers cannot set headers on websocket upgrades, so ?token= is accepted too.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.validator.ValidateSessionToken(c.Param("id"), tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RoleRequired lets the request through only for the listed roles.
// It must run after SessionAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Session role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		role, ok := value.(models.Role)
		if !ok || !allowed[role] {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
				WithDetails("Your role cannot perform this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

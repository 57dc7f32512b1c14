package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hablandodecaballos/backend/internal/core/auth"
	"github.com/hablandodecaballos/backend/internal/listing"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

type AuthMiddleware struct {
	authService *auth.Service
}

func NewAuthMiddleware(authService *auth.Service) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate rejects requests without a valid bearer token.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := m.claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token requerido"})
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a token is present but
// lets anonymous requests through. Public list endpoints use it so owners
// see their private rows.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := m.claims(c); ok {
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextUserRole, claims.Role)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) claims(c *gin.Context) (*auth.JWTClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, false
	}
	claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireModerator admits moderators and admins.
func (m *AuthMiddleware) RequireModerator() gin.HandlerFunc {
	return requireRole(auth.RoleModerator, auth.RoleAdmin)
}

// RequireAdmin admits admins only.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return requireRole(auth.RoleAdmin)
}

func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetUserRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permiso denegado"})
	}
}

// GetUserID returns the authenticated user, if any.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) string {
	val, exists := c.Get(ContextUserRole)
	if !exists {
		return ""
	}
	role, _ := val.(string)
	return role
}

// ViewerFrom maps the request identity onto the listing viewer classes.
func ViewerFrom(c *gin.Context) listing.Viewer {
	id, ok := GetUserID(c)
	if !ok {
		return listing.Anonymous()
	}
	switch GetUserRole(c) {
	case auth.RoleAdmin, auth.RoleModerator:
		return listing.Privileged(id)
	default:
		return listing.OwnerOf(id)
	}
}

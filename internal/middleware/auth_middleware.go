package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type sessionKey struct{}

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(tokenString string) (*jwt.Claims, error)
}

// AdminLookup loads the admin a token was issued to
type AdminLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error)
}

// JWTAuthMiddleware rejects requests without a valid admin bearer token or
// whose admin has since been deleted or unapproved. The AdminSession stored
// in the request context reflects the admin record, not the token claims.
func JWTAuthMiddleware(tokens TokenParser, admins AdminLookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(bearerSchema):]))
		if err != nil {
			logger.Debug("Token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		adminID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		admin, err := admins.FindByID(c.Request.Context(), adminID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			logger.Error("Failed to load admin", zap.String("admin_id", adminID.Hex()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if admin == nil || !admin.IsVerified || !admin.IsApproved {
			logger.Info("Token of inactive admin rejected", zap.String("admin_id", adminID.Hex()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account is no longer active"})
			return
		}

		session := models.AdminSession{AdminID: admin.ID, Email: admin.Email, Role: admin.Role}
		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// RequireRole allows only sessions holding one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// WithSession returns a copy of ctx carrying session
func WithSession(ctx context.Context, session models.AdminSession) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the admin session stored by JWTAuthMiddleware
func SessionFromContext(ctx context.Context) (models.AdminSession, bool) {
	session, ok := ctx.Value(sessionKey{}).(models.AdminSession)
	return session, ok
}

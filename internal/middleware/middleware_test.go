package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/actinova/admin-backend/internal/models"
	"github.com/actinova/admin-backend/internal/repositories"
	"github.com/actinova/admin-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type adminStore map[primitive.ObjectID]*models.Admin

func (s adminStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	if admin, ok := s[id]; ok {
		return admin, nil
	}
	return nil, repositories.ErrNotFound
}

type failingAdmins struct{}

func (failingAdmins) FindByID(context.Context, primitive.ObjectID) (*models.Admin, error) {
	return nil, errors.New("connection reset")
}

func newAuthRouter(tokens TokenParser, admins AdminLookup) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens, admins, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) {
		session, ok := SessionFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, session)
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens := jwt.NewTokenService("secret", time.Hour)
	adminID := primitive.NewObjectID()
	valid, err := tokens.Generate(adminID, "root@actinova.ai", models.RoleSuperAdmin)
	require.NoError(t, err)
	admins := adminStore{adminID: {
		ID: adminID, Email: "root@actinova.ai", Role: models.RoleSuperAdmin, IsVerified: true, IsApproved: true,
	}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	r := newAuthRouter(tokens, admins)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), adminID.Hex())
				assert.Contains(t, w.Body.String(), "root@actinova.ai")
			} else {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}

func TestJWTAuthMiddleware_ChecksAdminRecord(t *testing.T) {
	tokens := jwt.NewTokenService("secret", time.Hour)
	adminID := primitive.NewObjectID()
	token, err := tokens.Generate(adminID, "old@actinova.ai", models.RoleSuperAdmin)
	require.NoError(t, err)

	call := func(admins AdminLookup) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		newAuthRouter(tokens, admins).ServeHTTP(w, req)
		return w
	}

	t.Run("deleted admin", func(t *testing.T) {
		w := call(adminStore{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Account is no longer active"}`, w.Body.String())
	})

	t.Run("unapproved admin", func(t *testing.T) {
		w := call(adminStore{adminID: {ID: adminID, IsVerified: true, Role: models.RoleAdmin}})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("session follows the stored record", func(t *testing.T) {
		w := call(adminStore{adminID: {
			ID: adminID, Email: "new@actinova.ai", Role: models.RoleAdmin, IsVerified: true, IsApproved: true,
		}})
		require.Equal(t, http.StatusOK, w.Code)
		var session models.AdminSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
		assert.Equal(t, models.RoleAdmin, session.Role)
		assert.Equal(t, "new@actinova.ai", session.Email)
	})

	t.Run("lookup failure", func(t *testing.T) {
		w := call(failingAdmins{})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		role := c.GetHeader("X-Role")
		if role != "" {
			c.Request = c.Request.WithContext(WithSession(c.Request.Context(), models.AdminSession{Role: role}))
		}
		c.Next()
	})
	r.GET("/", RequireRole(models.RoleSuperAdmin), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for role, want := range map[string]int{
		"":                    http.StatusUnauthorized,
		models.RoleAdmin:      http.StatusForbidden,
		models.RoleSuperAdmin: http.StatusNoContent,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			req.Header.Set("X-Role", role)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, "role %q", role)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("RequestID")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(NewIPRateLimiter(0.001, 2), zap.NewNop()))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestIPRateLimiter_SeparateBuckets(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1)
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
}

type invalidationCounter struct {
	calls int
	err   error
}

func (i *invalidationCounter) Invalidate(context.Context) error {
	i.calls++
	return i.err
}

func TestInvalidateOnWrite(t *testing.T) {
	counter := &invalidationCounter{}
	r := gin.New()
	r.Use(InvalidateOnWrite(counter, zap.NewNop()))
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/items/:id", func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/items"},
		{http.MethodDelete, "/items/missing"},
		{http.MethodDelete, "/items/1"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(req.method, req.path, nil))
	}
	assert.Equal(t, 1, counter.calls)

	counter.err = errors.New("redis down")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/items/2", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, counter.calls)
}
